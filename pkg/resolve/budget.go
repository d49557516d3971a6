package resolve

import "github.com/macropower/strata/pkg/document"

// allocate walks the ordered candidates from highest to lowest precedence,
// accumulating token sizes. A document is included only if it fits in full;
// no document is ever split. Documents that do not fit are returned in
// dropped, in rejection order.
//
// If the mandatory set alone exceeds the budget, or a mandatory document
// would have to be dropped, allocation fails with a [*BudgetError].
// A maxTokens of zero or less disables budgeting.
func allocate(ordered []*document.Document, maxTokens int) (selected []*document.Document, dropped []DocumentSize, err error) {
	if maxTokens <= 0 {
		return ordered, nil, nil
	}

	// Check the minimum mandatory set before considering anything else, so
	// the failure is attributed to configuration rather than to whichever
	// path-specific document happened to be walked first.
	var (
		mandatory       []DocumentSize
		mandatoryTokens int
	)

	for _, doc := range ordered {
		if doc.Tier.Mandatory() {
			mandatory = append(mandatory, DocumentSize{ID: doc.ID, Tier: doc.Tier, Tokens: doc.Tokens})
			mandatoryTokens += doc.Tokens
		}
	}

	if mandatoryTokens > maxTokens {
		return nil, nil, &BudgetError{
			Documents: mandatory,
			Tokens:    mandatoryTokens,
			MaxTokens: maxTokens,
		}
	}

	var total int

	for _, doc := range ordered {
		if total+doc.Tokens > maxTokens {
			if doc.Tier.Mandatory() {
				// The mandatory set fits on its own, but precedence placed
				// other documents ahead of this one. Still fatal: mandatory
				// context must never be invisible to the caller.
				return nil, nil, &BudgetError{
					Documents: mandatory,
					Tokens:    mandatoryTokens,
					MaxTokens: maxTokens,
				}
			}

			dropped = append(dropped, DocumentSize{ID: doc.ID, Tier: doc.Tier, Tokens: doc.Tokens})

			continue
		}

		total += doc.Tokens
		selected = append(selected, doc)
	}

	return selected, dropped, nil
}
