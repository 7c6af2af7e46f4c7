package geoquiz

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// MaxBatchSize is the maximum number of items allowed in a DynamoDB batch operation.
	MaxBatchSize = 25
)

// MarshalPut marshals the item into an unconditional put item request.
func (t *Table) MarshalPut(item Item) *dynamodb.PutItemInput {
	return &dynamodb.PutItemInput{
		TableName: aws.String(t.TableName),
		Item:      item,
	}
}

// MarshalGet marshals the key into a get item request.
func (t *Table) MarshalGet(key Key) *dynamodb.GetItemInput {
	return &dynamodb.GetItemInput{
		TableName: aws.String(t.TableName),
		Key:       key.Item(),
	}
}

// MarshalDelete marshals the key into a delete item request.
func (t *Table) MarshalDelete(key Key) *dynamodb.DeleteItemInput {
	return &dynamodb.DeleteItemInput{
		TableName: aws.String(t.TableName),
		Key:       key.Item(),
	}
}

// MarshalBatch marshals the items into batch write put requests. Since there is a
// limit on how many requests can be contained in a single input, the requests are chunked
// in sizes of 25 or less.
func (t *Table) MarshalBatch(items []Item) []*dynamodb.BatchWriteItemInput {
	var batches []*dynamodb.BatchWriteItemInput

	for i := 0; i < len(items); i += MaxBatchSize {
		end := min(i+MaxBatchSize, len(items))

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, item := range items[i:end] {
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		batches = append(batches, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				t.TableName: writeRequests,
			},
		})
	}

	return batches
}

// MarshalQuery marshals the input into a query request.
func (t *Table) MarshalQuery(in QueryMarshaler) (*dynamodb.QueryInput, error) {
	input, err := in.MarshalQuery()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	input.TableName = aws.String(t.TableName)

	if in.UseRefIndex() {
		if t.RefIndexName == "" {
			return nil, fmt.Errorf("table %s has no ref index", t.TableName)
		}
		input.IndexName = aws.String(t.RefIndexName)
	}

	return input, nil
}

// MarshalScan marshals the filter into a full table scan request.
func (t *Table) MarshalScan(filter Filter) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(t.TableName),
	}

	cond, ok := filter.Condition()
	if !ok {
		return input, nil
	}

	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	input.FilterExpression = expr.Filter()
	input.ExpressionAttributeNames = expr.Names()
	input.ExpressionAttributeValues = expr.Values()

	return input, nil
}

// MarshalFilterQuery marshals the filter into a ref index query when the table
// has a ref index and the filter pins the label. An equality on the ref sort key
// becomes part of the key condition; every other condition stays a filter. It
// reports false when the filter must be served by a scan instead.
func (t *Table) MarshalFilterQuery(filter Filter) (*dynamodb.QueryInput, bool, error) {
	label, ok := filter.Equal[AttributeNameLabel]
	if t.RefIndexName == "" || !ok {
		return nil, false, nil
	}

	query := &QueryList{Label: label}
	rest := filter.without(AttributeNameLabel)

	if sortKey, ok := filter.Equal[AttributeNameRefSortKey]; ok {
		query.RefSortFilter = expression.Key(AttributeNameRefSortKey).Equal(expression.Value(sortKey))
		delete(rest.Equal, AttributeNameRefSortKey)
	}

	if cond, ok := rest.Condition(); ok {
		query.ConditionFilter = cond
	}

	input, err := t.MarshalQuery(query)
	if err != nil {
		return nil, false, err
	}

	return input, true, nil
}
