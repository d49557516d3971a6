package resolve

import (
	"fmt"
	"strings"

	"github.com/macropower/strata/pkg/document"
)

// Span records where one document landed in the composed output.
type Span struct {
	ID        string        `json:"id"`
	Tier      document.Tier `json:"tier"`
	ByteStart int           `json:"byteStart"`
	ByteEnd   int           `json:"byteEnd"`
}

// Result is the output of one resolution: the composed context, the spans
// of the documents it contains (in composition order), the documents that
// were dropped under budget pressure, and the total token count.
// Results are created per request and never shared or persisted.
type Result struct {
	Text      string         `json:"text"`
	Documents []Span         `json:"documents"`
	Dropped   []DocumentSize `json:"dropped,omitempty"`
	Tokens    int            `json:"tokens"`
}

// compose concatenates the selected documents, highest precedence first,
// preceding each body with a header identifying the document. Composition
// is a pure function of its input: identical input yields byte-identical
// output, which makes results suitable for golden-file testing.
func compose(selected []*document.Document) *Result {
	res := &Result{}

	var b strings.Builder
	for i, doc := range selected {
		if i > 0 {
			b.WriteString("\n")
		}

		start := b.Len()
		fmt.Fprintf(&b, "<!-- %s [%s] -->\n", doc.ID, doc.Tier)
		b.WriteString(doc.Body)

		if !strings.HasSuffix(doc.Body, "\n") {
			b.WriteString("\n")
		}

		res.Documents = append(res.Documents, Span{
			ID:        doc.ID,
			Tier:      doc.Tier,
			ByteStart: start,
			ByteEnd:   b.Len(),
		})
		res.Tokens += doc.Tokens
	}

	res.Text = b.String()

	return res
}
