package csvimport

import (
	"fmt"
	"sort"
	"strings"

	"agency-ledger/internal/models"
)

// MatchOrder decides which rule wins when several keywords hit the same item.
type MatchOrder string

const (
	// MatchOrderList evaluates rules in the order they were fetched.
	MatchOrderList MatchOrder = "list"
	// MatchOrderPriority evaluates higher priorities first; fetch order breaks ties.
	MatchOrderPriority MatchOrder = "priority"
)

func ParseMatchOrder(s string) (MatchOrder, error) {
	switch MatchOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchOrderList:
		return MatchOrderList, nil
	case MatchOrderPriority:
		return MatchOrderPriority, nil
	}
	return "", fmt.Errorf("unknown match order %q", s)
}

type compiledRule struct {
	keyword string
	rule    models.AutoMatchRule
}

// Matcher applies a fixed snapshot of auto-match rules. It never changes after
// construction and is safe for concurrent use.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher snapshots the active rules with a non-empty keyword.
func NewMatcher(rules []models.AutoMatchRule, order MatchOrder) *Matcher {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		keyword := strings.ToLower(strings.TrimSpace(r.Keyword))
		if !r.IsActive || keyword == "" {
			continue
		}
		compiled = append(compiled, compiledRule{keyword: keyword, rule: r})
	}

	if order == MatchOrderPriority {
		sort.SliceStable(compiled, func(i, j int) bool {
			return compiled[i].rule.Priority > compiled[j].rule.Priority
		})
	}

	return &Matcher{rules: compiled}
}

// Len reports how many rules take part in matching.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Match returns row with the first hitting rule's non-nil fields applied, and
// that rule. Without a hit the row comes back unchanged and the rule is nil.
func (m *Matcher) Match(row models.StagedTransaction) (models.StagedTransaction, *models.AutoMatchRule) {
	if m == nil {
		return row, nil
	}

	item := strings.ToLower(row.ItemName)
	for i := range m.rules {
		cr := &m.rules[i]
		if !strings.Contains(item, cr.keyword) {
			continue
		}

		if cr.rule.Category != nil {
			row.Category = *cr.rule.Category
		}
		if cr.rule.AssignedUserID != nil {
			id := *cr.rule.AssignedUserID
			row.AssignedUserID = &id
		}
		if cr.rule.PaymentMethod != nil {
			row.PaymentMethod = *cr.rule.PaymentMethod
		}

		matched := cr.rule
		return row, &matched
	}

	return row, nil
}
