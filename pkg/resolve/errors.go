package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/macropower/strata/pkg/document"
)

// ErrUnknownTemplate is returned when an explicit invocation names a prompt
// template that does not exist. It is recoverable; the registry is unchanged
// and other resolutions are unaffected.
var ErrUnknownTemplate = errors.New("unknown template")

// DocumentSize identifies a document and its token size, used in error and
// drop reporting.
type DocumentSize struct {
	ID     string        `json:"id"`
	Tier   document.Tier `json:"tier"`
	Tokens int           `json:"tokens"`
}

// BudgetError reports that the mandatory tiers alone exceed the token
// budget. This is a fatal configuration error; mandatory documents are
// defined as always-required context and must never be silently dropped.
type BudgetError struct {
	// Documents are the mandatory documents that overflow the budget.
	Documents []DocumentSize
	// Tokens is the combined size of the mandatory set.
	Tokens int
	// MaxTokens is the budget that was exceeded.
	MaxTokens int
}

func (e *BudgetError) Error() string {
	ids := make([]string, len(e.Documents))
	for i, d := range e.Documents {
		ids[i] = fmt.Sprintf("%s (%d)", d.ID, d.Tokens)
	}

	return fmt.Sprintf("mandatory tiers exceed budget: %d tokens > max %d: %s",
		e.Tokens, e.MaxTokens, strings.Join(ids, ", "))
}
