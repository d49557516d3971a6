package resolve

import (
	"sort"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/registry"
)

// candidates selects and orders the documents relevant to one resolution.
//
// Always-applicable tiers are candidates for every path. Path and agent
// tier documents must match the path (and any event restriction). Prompt
// templates never participate in path-based candidacy; they are reachable
// only through explicit invocation.
//
// The returned order, (tier rank ascending, registration order ascending),
// is the basis for both composition order and drop priority.
func candidates(snap *registry.Snapshot, path string, event document.EventType) []*document.Document {
	var out []*document.Document

	for _, doc := range snap.All() {
		if doc.Tier == document.TierPrompt {
			continue
		}
		if !doc.AllowsEvent(event) {
			continue
		}
		if doc.Tier.AlwaysApplies() || doc.AppliesToPath(path, event) {
			out = append(out, doc)
		}
	}

	orderByPrecedence(snap, out)

	return out
}

func orderByPrecedence(snap *registry.Snapshot, docs []*document.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		ri, rj := snap.Rank(docs[i].Tier), snap.Rank(docs[j].Tier)
		if ri != rj {
			return ri < rj
		}

		return docs[i].Order < docs[j].Order
	})
}
