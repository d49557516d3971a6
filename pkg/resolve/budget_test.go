package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/strata/pkg/document"
)

func sized(id string, tier document.Tier, tokens int) *document.Document {
	return &document.Document{
		ID:     id,
		Tier:   tier,
		Body:   "body of " + id,
		Tokens: tokens,
	}
}

func TestAllocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		ordered      []*document.Document
		maxTokens    int
		wantSelected []string
		wantDropped  []string
		wantErr      bool
	}{
		{
			name: "everything fits",
			ordered: []*document.Document{
				sized("a", document.TierRepository, 100),
				sized("b", document.TierPath, 50),
			},
			maxTokens:    1000,
			wantSelected: []string{"a", "b"},
		},
		{
			name: "lower tier dropped and reported",
			ordered: []*document.Document{
				sized("a", document.TierRepository, 100),
				sized("b", document.TierPath, 50),
			},
			maxTokens:    120,
			wantSelected: []string{"a"},
			wantDropped:  []string{"b"},
		},
		{
			name: "no partial inclusion after a drop",
			ordered: []*document.Document{
				sized("a", document.TierRepository, 100),
				sized("big", document.TierPath, 500),
				sized("small", document.TierPath, 20),
			},
			maxTokens:    150,
			wantSelected: []string{"a", "small"},
			wantDropped:  []string{"big"},
		},
		{
			name: "mandatory set exceeds budget",
			ordered: []*document.Document{
				sized("me", document.TierPersonal, 80),
				sized("repo", document.TierRepository, 80),
			},
			maxTokens: 120,
			wantErr:   true,
		},
		{
			name: "single mandatory document exceeds budget",
			ordered: []*document.Document{
				sized("repo", document.TierRepository, 200),
			},
			maxTokens: 120,
			wantErr:   true,
		},
		{
			name: "zero budget disables budgeting",
			ordered: []*document.Document{
				sized("a", document.TierRepository, 100000),
				sized("b", document.TierPath, 100000),
			},
			maxTokens:    0,
			wantSelected: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			selected, dropped, err := allocate(tt.ordered, tt.maxTokens)

			if tt.wantErr {
				var budgetErr *BudgetError
				require.ErrorAs(t, err, &budgetErr)
				assert.Greater(t, budgetErr.Tokens, budgetErr.MaxTokens)
				assert.NotEmpty(t, budgetErr.Documents)
				assert.Nil(t, selected)

				return
			}

			require.NoError(t, err)

			gotSelected := make([]string, 0, len(selected))
			for _, doc := range selected {
				gotSelected = append(gotSelected, doc.ID)
			}
			assert.Equal(t, tt.wantSelected, gotSelected)

			var gotDropped []string
			for _, d := range dropped {
				gotDropped = append(gotDropped, d.ID)
			}
			assert.Equal(t, tt.wantDropped, gotDropped, "dropped list")
		})
	}
}

func TestAllocate_MandatoryBehindCustomPrecedence(t *testing.T) {
	t.Parallel()

	// If precedence places droppable documents ahead of a mandatory one and
	// they crowd it out, that is still a fatal budget error, never a drop.
	ordered := []*document.Document{
		sized("org", document.TierOrganization, 100),
		sized("repo", document.TierRepository, 50),
	}

	_, _, err := allocate(ordered, 120)

	var budgetErr *BudgetError
	require.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, []DocumentSize{
		{ID: "repo", Tier: document.TierRepository, Tokens: 50},
	}, budgetErr.Documents)
}
