// Package assert provides fluent assertions over table items.
//
//	assert.Items(t, store.Items()).
//		HasCount(3).
//		ContainsQuiz("Q1").
//		ContainsQuestion("Q1", "X1").
//		HasAttribute("label", "QUIZ")
package assert

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/geoquiz"
)

// ItemsAssertion provides fluent assertions for DynamoDB items.
type ItemsAssertion struct {
	t     testing.TB
	items []geoquiz.Item
}

// Items creates a new ItemsAssertion for the given DynamoDB items.
func Items(t testing.TB, items []geoquiz.Item) *ItemsAssertion {
	return &ItemsAssertion{
		t:     t,
		items: items,
	}
}

// HasCount asserts that the items collection has the expected count.
func (a *ItemsAssertion) HasCount(expected int) *ItemsAssertion {
	a.t.Helper()
	if len(a.items) != expected {
		a.t.Errorf("expected %d items, got %d", expected, len(a.items))
	}
	return a
}

// IsEmpty asserts that the items collection is empty.
func (a *ItemsAssertion) IsEmpty() *ItemsAssertion {
	a.t.Helper()
	return a.HasCount(0)
}

// ContainsKey asserts that an item is stored under key.
func (a *ItemsAssertion) ContainsKey(key geoquiz.Key) *ItemsAssertion {
	a.t.Helper()
	if a.find(key) == nil {
		a.t.Errorf("expected to find item %s/%s", key.Partition, key.Sort)
	}
	return a
}

// NotContainsKey asserts that no item is stored under key.
func (a *ItemsAssertion) NotContainsKey(key geoquiz.Key) *ItemsAssertion {
	a.t.Helper()
	if a.find(key) != nil {
		a.t.Errorf("expected no item %s/%s", key.Partition, key.Sort)
	}
	return a
}

// ContainsQuiz asserts that the quiz row of quizID is present.
func (a *ItemsAssertion) ContainsQuiz(quizID string) *ItemsAssertion {
	a.t.Helper()
	return a.ContainsKey(geoquiz.QuizKey(quizID))
}

// ContainsQuestion asserts that a question row is present in the partition
// of quizID.
func (a *ItemsAssertion) ContainsQuestion(quizID, questionID string) *ItemsAssertion {
	a.t.Helper()
	return a.ContainsKey(geoquiz.QuestionKey(quizID, questionID))
}

// HasAttribute asserts that at least one item has the specified string
// attribute with the expected value.
func (a *ItemsAssertion) HasAttribute(attributeName, expectedValue string) *ItemsAssertion {
	a.t.Helper()
	for _, item := range a.items {
		if s, ok := item[attributeName].(*types.AttributeValueMemberS); ok && s.Value == expectedValue {
			return a
		}
	}
	a.t.Errorf("expected to find attribute %s with value %s in items", attributeName, expectedValue)
	return a
}

// Item returns an assertion over the item stored under key. The test fails
// immediately if there is none.
func (a *ItemsAssertion) Item(key geoquiz.Key) *ItemAssertion {
	a.t.Helper()
	item := a.find(key)
	if item == nil {
		a.t.Fatalf("expected to find item %s/%s", key.Partition, key.Sort)
	}
	return DynamoDBItem(a.t, item)
}

func (a *ItemsAssertion) find(key geoquiz.Key) geoquiz.Item {
	for _, item := range a.items {
		got, err := geoquiz.UnmarshalTableKey(item)
		if err == nil && got == key {
			return item
		}
	}
	return nil
}

// ItemAssertion provides fluent assertions for a single item.
type ItemAssertion struct {
	t    testing.TB
	item geoquiz.Item
}

// DynamoDBItem creates a new ItemAssertion.
func DynamoDBItem(t testing.TB, item geoquiz.Item) *ItemAssertion {
	return &ItemAssertion{t: t, item: item}
}

// HasLabel asserts the item label.
func (a *ItemAssertion) HasLabel(expected string) *ItemAssertion {
	a.t.Helper()
	return a.hasString(geoquiz.AttributeNameLabel, expected)
}

// HasRefSortKey asserts the ref index sort key of the item.
func (a *ItemAssertion) HasRefSortKey(expected string) *ItemAssertion {
	a.t.Helper()
	return a.hasString(geoquiz.AttributeNameRefSortKey, expected)
}

// HasDataField asserts that a field of the data attribute decodes to expected.
func (a *ItemAssertion) HasDataField(field string, expected any) *ItemAssertion {
	a.t.Helper()

	var data map[string]any
	if err := attributevalue.Unmarshal(a.item[geoquiz.AttributeNameData], &data); err != nil {
		a.t.Errorf("failed to unmarshal data: %v", err)
		return a
	}

	if got, ok := data[field]; !ok {
		a.t.Errorf("expected data field %s", field)
	} else if got != expected {
		a.t.Errorf("expected data field %s to be %v, got %v", field, expected, got)
	}
	return a
}

// LacksDataField asserts that the data attribute has no such field.
func (a *ItemAssertion) LacksDataField(field string) *ItemAssertion {
	a.t.Helper()

	var data map[string]any
	if err := attributevalue.Unmarshal(a.item[geoquiz.AttributeNameData], &data); err != nil {
		a.t.Errorf("failed to unmarshal data: %v", err)
		return a
	}
	if _, ok := data[field]; ok {
		a.t.Errorf("expected no data field %s", field)
	}
	return a
}

func (a *ItemAssertion) hasString(name, expected string) *ItemAssertion {
	a.t.Helper()
	s, ok := a.item[name].(*types.AttributeValueMemberS)
	if !ok {
		a.t.Errorf("expected string attribute %s", name)
	} else if s.Value != expected {
		a.t.Errorf("expected %s to be %q, got %q", name, expected, s.Value)
	}
	return a
}
