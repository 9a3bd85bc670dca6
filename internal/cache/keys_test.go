package cache

import "testing"

func TestKeys_NormalizationCollisions(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			name: "case_and_whitespace_variants_collide",
			a:    DocumentKey("  What was Revenue? ", "ACM", []string{"10k"}),
			b:    DocumentKey("what was revenue?", "acm", []string{"10k"}),
			same: true,
		},
		{
			name: "doc_type_order_is_irrelevant",
			a:    DocumentKey("q", "ACM", []string{"income_statement", "balance_sheet"}),
			b:    DocumentKey("q", "ACM", []string{"balance_sheet", "income_statement"}),
			same: true,
		},
		{
			name: "different_ticker_differs",
			a:    DocumentKey("q", "ACM", nil),
			b:    DocumentKey("q", "PWR", nil),
			same: false,
		},
		{
			name: "response_key_includes_top_k",
			a:    ResponseKey("q", "ACM", nil, 5),
			b:    ResponseKey("q", "ACM", nil, 10),
			same: false,
		},
		{
			name: "embedding_key_trims_and_lowers",
			a:    EmbeddingKey("  Total Assets  "),
			b:    EmbeddingKey("total assets"),
			same: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.a == tt.b) != tt.same {
				t.Errorf("keys %q vs %q: same=%v, want %v", tt.a, tt.b, tt.a == tt.b, tt.same)
			}
		})
	}
}

func TestDocumentKey_DoesNotMutateInput(t *testing.T) {
	docTypes := []string{"income_statement", "balance_sheet"}
	DocumentKey("q", "ACM", docTypes)

	if docTypes[0] != "income_statement" {
		t.Error("key derivation must not reorder the caller's slice")
	}
}
