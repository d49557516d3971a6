package resolve

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/registry"
)

// Service orchestrates candidate selection, budgeting, and composition
// against the registry's current snapshot. Each call captures one snapshot
// reference and uses it for the entire resolution; resolution is read-only
// and safe to run concurrently with reloads.
type Service struct {
	reg       *registry.Registry
	tracer    trace.Tracer
	maxTokens int
}

// ServiceOpt configures a [Service].
type ServiceOpt func(*Service)

// WithMaxTokens sets the token budget applied to every resolution.
// Zero or less disables budgeting.
func WithMaxTokens(maxTokens int) ServiceOpt {
	return func(s *Service) {
		s.maxTokens = maxTokens
	}
}

// NewService creates a [Service] over the given registry.
func NewService(reg *registry.Registry, opts ...ServiceOpt) *Service {
	s := &Service{
		reg:    reg,
		tracer: otel.Tracer("resolver"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaxTokens returns the configured token budget.
func (s *Service) MaxTokens() int {
	return s.maxTokens
}

// Registry returns the underlying registry.
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// Resolve composes the instruction context for one edited path and event.
//
// A path with no matching path-specific documents is not an error; the
// result then contains only the always-applicable tiers, possibly none.
// Resolution fails only when the mandatory tiers cannot fit the budget.
func (s *Service) Resolve(ctx context.Context, path string, event document.EventType) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "resolve",
		trace.WithAttributes(
			attribute.String("path", path),
			attribute.String("event", string(event)),
		),
	)
	defer span.End()

	snap := s.reg.Snapshot()

	return s.resolveOrdered(ctx, candidates(snap, path, event))
}

// ResolveExplicit looks up a single prompt template by name and composes it
// alone, bypassing path matching and the budget. Explicit invocation is
// never combined implicitly with path-matched tiers; see
// [Service.ResolveCombined] for the opt-in combination.
func (s *Service) ResolveExplicit(ctx context.Context, name string) (*Result, error) {
	_, span := s.tracer.Start(ctx, "resolve_explicit",
		trace.WithAttributes(attribute.String("name", name)),
	)
	defer span.End()

	snap := s.reg.Snapshot()

	doc, ok := snap.Get(name)
	if !ok || doc.Tier != document.TierPrompt {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	return compose([]*document.Document{doc}), nil
}

// ResolveCombined resolves path-matched tiers and additionally includes the
// named prompt template, placed according to its tier's precedence and
// subject to the budget like any other droppable document.
func (s *Service) ResolveCombined(ctx context.Context, path string, event document.EventType, name string) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "resolve_combined",
		trace.WithAttributes(
			attribute.String("path", path),
			attribute.String("event", string(event)),
			attribute.String("name", name),
		),
	)
	defer span.End()

	snap := s.reg.Snapshot()

	doc, ok := snap.Get(name)
	if !ok || doc.Tier != document.TierPrompt {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	cands := append(candidates(snap, path, event), doc)
	orderByPrecedence(snap, cands)

	return s.resolveOrdered(ctx, cands)
}

func (s *Service) resolveOrdered(ctx context.Context, ordered []*document.Document) (*Result, error) {
	// Resolution is a bounded, CPU-only computation with no external side
	// effects, so honoring cancellation means simply abandoning it.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolution abandoned: %w", err)
	}

	selected, dropped, err := allocate(ordered, s.maxTokens)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolution abandoned: %w", err)
	}

	res := compose(selected)
	res.Dropped = dropped

	return res, nil
}

// Finding is one issue discovered by [Service.Validate].
type Finding struct {
	DocumentID string `json:"documentId,omitempty"`
	Message    string `json:"message"`
}

// Validate runs registration-time checks over the current snapshot without
// performing a resolution. Duplicate ids and invalid patterns cannot enter
// a published snapshot, so the remaining checks concern the budget: the
// mandatory set must fit, and no single document may be unreachable.
func (s *Service) Validate() []Finding {
	snap := s.reg.Snapshot()

	var findings []Finding

	if s.maxTokens > 0 {
		var mandatoryTokens int

		for _, doc := range snap.All() {
			if doc.Tier.Mandatory() {
				mandatoryTokens += doc.Tokens
			}

			if doc.Tokens > s.maxTokens {
				findings = append(findings, Finding{
					DocumentID: doc.ID,
					Message: fmt.Sprintf("document alone exceeds budget: %d tokens > max %d",
						doc.Tokens, s.maxTokens),
				})
			}
		}

		if mandatoryTokens > s.maxTokens {
			findings = append(findings, Finding{
				Message: fmt.Sprintf("mandatory tiers exceed budget: %d tokens > max %d",
					mandatoryTokens, s.maxTokens),
			})
		}
	}

	return findings
}
