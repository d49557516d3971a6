package document

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/strata/pkg/expr"
	"github.com/macropower/strata/pkg/pattern"
)

var (
	// ErrInvalidDocument is returned when a document fails validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocument is returned when a document would resolve to an empty
	// body, which breaks token accounting.
	ErrEmptyDocument = errors.New("document has no body")
)

// Document is one instruction document: an opaque text body plus the
// metadata needed to decide when it applies. The body content is never
// interpreted; the resolver only orders, includes, and excludes documents.
//
// A document declares applicability through `appliesTo` glob patterns,
// through a CEL `match` expression, or through neither (always-applicable
// tiers). See [pattern.Compile] for glob syntax and [expr] for the match
// expression environment.
type Document struct {
	patterns     []*pattern.Pattern
	matchProgram cel.Program

	// ID uniquely identifies the document within a registry.
	ID string `json:"id" jsonschema:"title=ID"`
	// Tier assigns the document's precedence class.
	Tier Tier `json:"tier" jsonschema:"title=Tier,enum=personal,enum=repository,enum=path,enum=agent,enum=prompt,enum=organization"`
	// AppliesTo restricts the document to paths matching any listed pattern.
	// Each entry is a comma-separated list of glob sub-patterns.
	AppliesTo []string `json:"appliesTo,omitempty" jsonschema:"title=Applies To"`
	// Match is an optional CEL expression over `path` and `event`, evaluated
	// in addition to any appliesTo patterns.
	Match string `json:"match,omitempty" jsonschema:"title=Match Expression"`
	// Events restricts the document to a subset of event types.
	// Absence of a restriction means all events.
	Events []EventType `json:"events,omitempty" jsonschema:"title=Events,enum=completion,enum=chat,enum=agentWorkflow,enum=codeReview"`
	// Body is the inline instruction text.
	Body string `json:"body,omitempty" jsonschema:"title=Body"`
	// Source is a file path whose contents provide the body, resolved at
	// load time. Mutually exclusive with Body.
	Source string `json:"source,omitempty" jsonschema:"title=Source"`

	// Tokens is the document's size, computed once at registration.
	// It must not be modified after the document enters a snapshot.
	Tokens int `json:"-"`
	// Order is the registration sequence number, used for deterministic
	// tie-breaking within a tier.
	Order int `json:"-"`
}

// Validate checks structural invariants. It does not compile patterns or
// match expressions; see [Document.Compile].
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDocument)
	}
	if !d.Tier.Valid() {
		return fmt.Errorf("%w: %s: unknown tier %q", ErrInvalidDocument, d.ID, d.Tier)
	}

	for _, e := range d.Events {
		if !e.Valid() {
			return fmt.Errorf("%w: %s: unknown event type %q", ErrInvalidDocument, d.ID, e)
		}
	}

	// Mandatory tiers are included in every resolution, so an event
	// restriction would be contradictory.
	if d.Tier.Mandatory() && len(d.Events) > 0 {
		return fmt.Errorf("%w: %s: %s documents must not restrict events",
			ErrInvalidDocument, d.ID, d.Tier)
	}

	if d.Body != "" && d.Source != "" {
		return fmt.Errorf("%w: %s: body and source are mutually exclusive", ErrInvalidDocument, d.ID)
	}
	if d.Body == "" && d.Source == "" {
		return fmt.Errorf("%w: %s", ErrEmptyDocument, d.ID)
	}

	// Prompt templates are reachable only by explicit name.
	if d.Tier == TierPromptFile && (len(d.AppliesTo) > 0 || d.Match != "") {
		return fmt.Errorf("%w: %s: %s documents must not declare appliesTo or match",
			ErrInvalidDocument, d.ID, TierPromptFile)
	}

	if d.Tier.AlwaysApplies() && (len(d.AppliesTo) > 0 || d.Match != "") {
		return fmt.Errorf("%w: %s: %s documents apply unconditionally and must not declare appliesTo or match",
			ErrInvalidDocument, d.ID, d.Tier)
	}

	return nil
}

// Compile compiles the document's appliesTo patterns and match expression.
// All syntax errors surface here, at registration time. Compile is
// idempotent.
func (d *Document) Compile(env *expr.Environment) error {
	if len(d.patterns) == 0 {
		for _, raw := range d.AppliesTo {
			p, err := pattern.Compile(raw)
			if err != nil {
				return fmt.Errorf("document %s: %w", d.ID, err)
			}

			d.patterns = append(d.patterns, p)
		}
	}

	if d.Match != "" && d.matchProgram == nil {
		program, err := env.Compile(d.Match)
		if err != nil {
			return fmt.Errorf("document %s: match expression: %w", d.ID, err)
		}

		d.matchProgram = program
	}

	return nil
}

// AppliesToPath reports whether the document's patterns or match expression
// accept the given path and event. Documents without any applicability
// declaration apply to every path.
func (d *Document) AppliesToPath(path string, event EventType) bool {
	if len(d.patterns) == 0 && d.matchProgram == nil {
		return true
	}

	for _, p := range d.patterns {
		if p.Matches(path) {
			return true
		}
	}

	if d.matchProgram != nil {
		result, _, err := d.matchProgram.Eval(map[string]any{
			"path":  path,
			"event": string(event),
		})
		if err != nil {
			// An evaluation failure is a non-match, never a resolution error.
			return false
		}

		if boolVal, ok := result.Value().(bool); ok {
			return boolVal
		}
	}

	return false
}

// AllowsEvent reports whether the document is active for the given event
// type. An empty restriction allows all events.
func (d *Document) AllowsEvent(event EventType) bool {
	if len(d.Events) == 0 {
		return true
	}

	for _, e := range d.Events {
		if e == event {
			return true
		}
	}

	return false
}

func (d *Document) String() string {
	return fmt.Sprintf("%s/%s (%d tokens)", d.Tier, d.ID, d.Tokens)
}
