package geoquiz

import (
	"maps"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Filter is a predicate over the top-level string attributes of an item. All
// conditions must hold for an item to match. A zero Filter matches every item.
type Filter struct {
	Equal      map[string]string // attribute name -> exact value
	BeginsWith map[string]string // attribute name -> value prefix
}

// IsZero reports whether the filter has no conditions.
func (f Filter) IsZero() bool {
	return len(f.Equal) == 0 && len(f.BeginsWith) == 0
}

// Match evaluates the filter against item.
func (f Filter) Match(item Item) bool {
	for name, want := range f.Equal {
		got, ok := stringAttribute(item, name)
		if !ok || got != want {
			return false
		}
	}
	for name, prefix := range f.BeginsWith {
		got, ok := stringAttribute(item, name)
		if !ok || !strings.HasPrefix(got, prefix) {
			return false
		}
	}
	return true
}

// Condition compiles the filter into a DynamoDB condition. Conditions are
// emitted in attribute name order so the expression is stable. It reports
// false for a zero Filter.
func (f Filter) Condition() (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder

	for _, name := range slices.Sorted(maps.Keys(f.Equal)) {
		conds = append(conds, expression.Name(name).Equal(expression.Value(f.Equal[name])))
	}
	for _, name := range slices.Sorted(maps.Keys(f.BeginsWith)) {
		conds = append(conds, expression.Name(name).BeginsWith(f.BeginsWith[name]))
	}

	if len(conds) == 0 {
		return expression.ConditionBuilder{}, false
	}
	if len(conds) == 1 {
		return conds[0], true
	}
	return conds[0].And(conds[1], conds[2:]...), true
}

// without returns a copy of f with the named attributes removed from both
// condition sets.
func (f Filter) without(names ...string) Filter {
	out := Filter{
		Equal:      maps.Clone(f.Equal),
		BeginsWith: maps.Clone(f.BeginsWith),
	}
	for _, name := range names {
		delete(out.Equal, name)
		delete(out.BeginsWith, name)
	}
	return out
}

func stringAttribute(item Item, name string) (string, bool) {
	attr, ok := item[name]
	if !ok {
		return "", false
	}
	s, ok := attr.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}
