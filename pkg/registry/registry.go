package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/expr"
	"github.com/macropower/strata/pkg/token"
)

// ErrDuplicateID is returned when a registration contains two documents with
// the same id.
var ErrDuplicateID = errors.New("duplicate document id")

// Registry holds the published [Snapshot] of instruction documents.
//
// Snapshots are immutable once published. Add and Reload construct a new
// snapshot and publish it with an atomic pointer swap, so arbitrarily many
// resolutions can proceed lock-free against the snapshot they captured. A
// failed registration or reload leaves the published snapshot untouched.
type Registry struct {
	current    atomic.Pointer[Snapshot]
	env        *expr.Environment
	counter    token.Counter
	precedence []document.Tier
	mu         sync.Mutex
}

// Opt configures a [Registry].
type Opt func(*Registry)

// WithTokenCounter sets the counter used to size documents at registration.
func WithTokenCounter(c token.Counter) Opt {
	return func(r *Registry) {
		r.counter = c
	}
}

// WithPrecedence overrides the default tier precedence (highest first).
func WithPrecedence(precedence []document.Tier) Opt {
	return func(r *Registry) {
		r.precedence = precedence
	}
}

// New creates an empty [Registry].
func New(opts ...Opt) (*Registry, error) {
	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, fmt.Errorf("create match environment: %w", err)
	}

	r := &Registry{
		env:        env,
		counter:    token.DefaultEstimator,
		precedence: document.DefaultPrecedence,
	}
	for _, opt := range opts {
		opt(r)
	}

	ranks, err := document.Ranks(r.precedence)
	if err != nil {
		return nil, fmt.Errorf("tier precedence: %w", err)
	}

	r.current.Store(&Snapshot{
		docs:  map[string]*document.Document{},
		ranks: ranks,
	})

	return r, nil
}

// Snapshot returns the currently published snapshot. The caller keeps using
// the returned snapshot for the entire duration of one resolution, so a
// concurrent reload is never observed mid-resolution.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Add registers additional documents on top of the published snapshot.
// Validation and compilation failures reject the whole call.
func (r *Registry) Add(docs ...*document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.current.Load()
	combined := make([]*document.Document, 0, len(snap.order)+len(docs))
	combined = append(combined, snap.order...)
	combined = append(combined, docs...)

	next, err := r.build(combined)
	if err != nil {
		return err
	}

	r.current.Store(next)

	return nil
}

// Reload atomically replaces the published snapshot with one built from the
// given documents. On error the previously published snapshot remains
// visible; no partial update is ever observable.
func (r *Registry) Reload(docs []*document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.build(docs)
	if err != nil {
		return err
	}

	r.current.Store(next)

	return nil
}

// build constructs a snapshot, assigning registration order and token sizes.
// Documents already carrying a token size keep it; sizes are computed once
// and never recomputed for a document that survives into a new snapshot.
//
// Documents carried over from the published snapshot are shared with
// lock-free readers, so build never writes through an input pointer: when
// order or size must be assigned, the document is copied first.
func (r *Registry) build(docs []*document.Document) (*Snapshot, error) {
	ranks, err := document.Ranks(r.precedence)
	if err != nil {
		return nil, fmt.Errorf("tier precedence: %w", err)
	}

	snap := &Snapshot{
		docs:  make(map[string]*document.Document, len(docs)),
		order: make([]*document.Document, 0, len(docs)),
		ranks: ranks,
	}

	for i, doc := range docs {
		if _, ok := snap.docs[doc.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, doc.ID)
		}

		err := doc.Validate()
		if err != nil {
			return nil, err
		}

		err = doc.Compile(r.env)
		if err != nil {
			return nil, err
		}

		tokens := doc.Tokens
		if tokens == 0 {
			tokens = r.counter.Count(doc.Body)
		}
		if tokens <= 0 {
			return nil, fmt.Errorf("%w: %s", document.ErrEmptyDocument, doc.ID)
		}

		if doc.Order != i || doc.Tokens != tokens {
			cp := *doc
			cp.Order = i
			cp.Tokens = tokens
			doc = &cp
		}

		snap.docs[doc.ID] = doc
		snap.order = append(snap.order, doc)
	}

	return snap, nil
}

// Snapshot is an immutable view of all registered documents.
type Snapshot struct {
	docs  map[string]*document.Document
	ranks map[document.Tier]int
	order []*document.Document
}

// Get returns the document with the given id.
func (s *Snapshot) Get(id string) (*document.Document, bool) {
	doc, ok := s.docs[id]

	return doc, ok
}

// All returns every document in registration order.
func (s *Snapshot) All() []*document.Document {
	return s.order
}

// ByTier returns the documents of one tier in registration order.
func (s *Snapshot) ByTier(tier document.Tier) []*document.Document {
	var docs []*document.Document
	for _, doc := range s.order {
		if doc.Tier == tier {
			docs = append(docs, doc)
		}
	}

	return docs
}

// Rank returns the precedence rank of a tier; lower is higher precedence.
func (s *Snapshot) Rank(tier document.Tier) int {
	return s.ranks[tier]
}

// Len returns the number of registered documents.
func (s *Snapshot) Len() int {
	return len(s.order)
}
