package geoquiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Store is a narrow view of a sorted key-value store scoped to one logical
// table. Implementations do not retry; failures are returned as errors of
// kind [KindStore].
type Store interface {
	// GetItem returns the item stored under key, or [ErrItemNotFound].
	GetItem(ctx context.Context, key Key) (Item, error)
	// PutItem unconditionally creates or replaces the item.
	PutItem(ctx context.Context, item Item) error
	// QueryPrefix returns every item in partition whose sort key begins with
	// sortPrefix, ordered by sort key.
	QueryPrefix(ctx context.Context, partition, sortPrefix string) ([]Item, error)
	// ScanAll returns every item in the table that matches filter. The cost
	// is proportional to the table size.
	ScanAll(ctx context.Context, filter Filter) ([]Item, error)
	// DeleteItem removes the item stored under key. Deleting a missing item
	// is not an error.
	DeleteItem(ctx context.Context, key Key) error
}

// DynamoStore implements Store against a DynamoDB table.
type DynamoStore struct {
	table  *Table         // table configuration
	client DynamoDBClient // dynamodb client
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore returns a Store backed by client.
func NewDynamoStore(table *Table, client DynamoDBClient) *DynamoStore {
	return &DynamoStore{
		table:  table,
		client: client,
	}
}

// GetItem implements Store.
func (s *DynamoStore) GetItem(ctx context.Context, key Key) (Item, error) {
	out, err := s.client.GetItem(ctx, s.table.MarshalGet(key))
	if err != nil {
		return nil, TransientStoreError("failed to get item", err)
	}

	if out.Item == nil {
		return nil, ErrItemNotFound
	}

	return out.Item, nil
}

// PutItem implements Store.
func (s *DynamoStore) PutItem(ctx context.Context, item Item) error {
	if _, err := s.client.PutItem(ctx, s.table.MarshalPut(item)); err != nil {
		return TransientStoreError("failed to put item", err)
	}
	return nil
}

// QueryPrefix implements Store. All result pages are read before returning.
func (s *DynamoStore) QueryPrefix(ctx context.Context, partition, sortPrefix string) ([]Item, error) {
	input, err := s.table.MarshalQuery(&QueryPartition{
		Partition:  partition,
		SortPrefix: sortPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	return s.drainQuery(ctx, input)
}

// ScanAll implements Store. All result pages are read before returning. When
// the table has a ref index and the filter pins a label, the index is queried
// instead of scanning the table.
func (s *DynamoStore) ScanAll(ctx context.Context, filter Filter) ([]Item, error) {
	query, ok, err := s.table.MarshalFilterQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal index query: %w", err)
	}
	if ok {
		return s.drainQuery(ctx, query)
	}

	input, err := s.table.MarshalScan(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scan: %w", err)
	}

	var items []Item
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, TransientStoreError("failed to scan table", err)
		}
		items = append(items, page.Items...)
	}

	return items, nil
}

// DeleteItem implements Store.
func (s *DynamoStore) DeleteItem(ctx context.Context, key Key) error {
	if _, err := s.client.DeleteItem(ctx, s.table.MarshalDelete(key)); err != nil {
		return TransientStoreError("failed to delete item", err)
	}
	return nil
}

func (s *DynamoStore) drainQuery(ctx context.Context, input *dynamodb.QueryInput) ([]Item, error) {
	var items []Item
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, TransientStoreError("failed to query table", err)
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// isNotFound reports whether err is the store's missing item error.
func isNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}
