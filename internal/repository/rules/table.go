package rules

import (
	"sort"
	"sync"

	"github.com/oshokin/build-time-include/internal/domain/asset"
)

// Table is an in-memory set of cook rules keyed by primary asset id.
type Table struct {
	// rules maps primary asset ids to their cook rule.
	rules map[asset.PrimaryAssetID]asset.CookRule
	// mu protects rules.
	mu sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		rules: make(map[asset.PrimaryAssetID]asset.CookRule),
	}
}

// PrimaryAssetRule returns the rule of id, CookRuleUnknown if none was set.
func (t *Table) PrimaryAssetRule(id asset.PrimaryAssetID) asset.CookRule {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rule, ok := t.rules[id]; ok {
		return rule
	}

	return asset.CookRuleUnknown
}

// SetPrimaryAssetRule overrides the rule of id.
func (t *Table) SetPrimaryAssetRule(id asset.PrimaryAssetID, rule asset.CookRule) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rules[id] = rule
}

// Len returns the number of rules.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.rules)
}

// IDs returns the ids with a rule, sorted by their string form.
func (t *Table) IDs() []asset.PrimaryAssetID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]asset.PrimaryAssetID, 0, len(t.rules))
	for id := range t.rules {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}
