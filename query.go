package geoquiz

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// QueryMarshaler can marshal input into a dynamodb query request.
type QueryMarshaler interface {
	MarshalQuery() (*dynamodb.QueryInput, error)
	UseRefIndex() bool
}

// QueryPartition is a QueryMarshaler that searches within a single partition,
// optionally restricted to sort keys beginning with SortPrefix. Results are
// ordered by sort key.
type QueryPartition struct {
	Partition       string                      // The partition key to search
	SortPrefix      string                      // Optional sort key prefix
	ConditionFilter expression.ConditionBuilder // Optional filters on the record
	SortDescending  bool                        // If true, scans backward
}

// MarshalQuery implements QueryMarshaler for QueryPartition.
func (q *QueryPartition) MarshalQuery() (*dynamodb.QueryInput, error) {
	if q.Partition == "" {
		return nil, fmt.Errorf("partition key is required")
	}

	keyCondition := expression.Key(AttributeNameSource).Equal(expression.Value(q.Partition))

	if q.SortPrefix != "" {
		keyCondition = keyCondition.And(expression.Key(AttributeNameTarget).BeginsWith(q.SortPrefix))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCondition)

	if q.ConditionFilter.IsSet() {
		builder = builder.WithFilter(q.ConditionFilter)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	return &dynamodb.QueryInput{
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		FilterExpression:          expr.Filter(),
		ScanIndexForward:          aws.Bool(!q.SortDescending),
	}, nil
}

// QueryList is a QueryMarshaler that searches the ref index for records with a
// specific label.
type QueryList struct {
	Label           string                         // The record label
	RefSortFilter   expression.KeyConditionBuilder // Optional filters on the label sort key
	ConditionFilter expression.ConditionBuilder    // Optional filters on the record
	SortDescending  bool                           // Scan direction (default: false)
}

// MarshalQuery implements QueryMarshaler for QueryList.
func (q *QueryList) MarshalQuery() (*dynamodb.QueryInput, error) {
	keyCondition := expression.Key(AttributeNameLabel).Equal(expression.Value(q.Label))

	if q.RefSortFilter.IsSet() {
		keyCondition = keyCondition.And(q.RefSortFilter)
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCondition)

	if q.ConditionFilter.IsSet() {
		builder = builder.WithFilter(q.ConditionFilter)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.SortDescending),
	}

	if q.ConditionFilter.IsSet() {
		input.FilterExpression = expr.Filter()
	}

	return input, nil
}

func (QueryPartition) UseRefIndex() bool { return false }
func (QueryList) UseRefIndex() bool      { return true }
