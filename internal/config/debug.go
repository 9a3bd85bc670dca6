package config

import "os"

func IsDebug() bool {
	return os.Getenv("FINSIGHT_DEBUG") == "1"
}
