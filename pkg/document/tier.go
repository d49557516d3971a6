package document

import (
	"errors"
	"fmt"
	"slices"
)

// Tier is a named precedence class assigned to an instruction document.
type Tier string

const (
	// TierPersonal holds per-user instructions. Always applicable, mandatory.
	TierPersonal Tier = "personal"
	// TierRepository holds repository-wide instructions. Always applicable,
	// mandatory.
	TierRepository Tier = "repository"
	// TierPath holds instructions scoped to path patterns.
	TierPath Tier = "path"
	// TierAgent holds instructions for agent workflows, scoped to path
	// patterns.
	TierAgent Tier = "agent"
	// TierPrompt holds prompt templates, reachable only by explicit name.
	TierPrompt Tier = "prompt"
	// TierOrganization holds organization-wide instructions. Always
	// applicable, but droppable under budget pressure.
	TierOrganization Tier = "organization"
)

// Aliases kept for readability at call sites that mirror the external
// terminology.
const (
	TierRepositoryWide = TierRepository
	TierPathSpecific   = TierPath
	TierAgentWorkflow  = TierAgent
	TierPromptFile     = TierPrompt
)

// ErrInvalidPrecedence is returned when a precedence declaration does not
// cover every tier exactly once.
var ErrInvalidPrecedence = errors.New("invalid precedence")

// DefaultPrecedence is the default tier order, highest precedence first.
// Precedence determines composition order and drop priority under budget
// pressure, not mutual exclusion.
var DefaultPrecedence = []Tier{
	TierPersonal,
	TierRepository,
	TierPath,
	TierAgent,
	TierPrompt,
	TierOrganization,
}

// AllTiers lists every valid tier value.
var AllTiers = []Tier{
	TierPersonal,
	TierRepository,
	TierPath,
	TierAgent,
	TierPrompt,
	TierOrganization,
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return slices.Contains(AllTiers, t)
}

// AlwaysApplies reports whether documents in this tier are candidates for
// every resolution, regardless of path.
func (t Tier) AlwaysApplies() bool {
	return t == TierPersonal || t == TierRepository || t == TierOrganization
}

// Mandatory reports whether documents in this tier must always fit the
// budget. Overflow of a mandatory tier fails the resolution outright.
func (t Tier) Mandatory() bool {
	return t == TierPersonal || t == TierRepository
}

// Ranks builds a tier→rank map from a precedence declaration (highest
// precedence first). The declaration must contain every tier exactly once.
func Ranks(precedence []Tier) (map[Tier]int, error) {
	ranks := make(map[Tier]int, len(precedence))

	for i, t := range precedence {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidPrecedence, t)
		}
		if _, ok := ranks[t]; ok {
			return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidPrecedence, t)
		}

		ranks[t] = i
	}

	if len(ranks) != len(AllTiers) {
		return nil, fmt.Errorf("%w: must list all %d tiers, got %d",
			ErrInvalidPrecedence, len(AllTiers), len(ranks))
	}

	return ranks, nil
}
