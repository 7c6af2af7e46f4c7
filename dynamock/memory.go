package dynamock

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/nisimpson/geoquiz"
)

// Operation names passed to [MemoryStore.FailOn].
const (
	OpGet    = "GetItem"
	OpPut    = "PutItem"
	OpQuery  = "QueryPrefix"
	OpScan   = "ScanAll"
	OpDelete = "DeleteItem"
)

// MemoryStore is an in-memory geoquiz.Store. Items are kept in key order, so
// query and scan results are deterministic. It is safe for concurrent use.
type MemoryStore struct {
	// FailOn, when set, is consulted before every operation. A non-nil
	// result is returned as a store error and the operation is not applied.
	// For QueryPrefix the key holds the partition and sort prefix; for
	// ScanAll it is the zero Key.
	FailOn func(op string, key geoquiz.Key) error

	mu    sync.RWMutex
	items map[geoquiz.Key]geoquiz.Item
	calls map[string]int
}

var _ geoquiz.Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[geoquiz.Key]geoquiz.Item),
		calls: make(map[string]int),
	}
}

func (m *MemoryStore) fail(op string, key geoquiz.Key) error {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()

	if m.FailOn == nil {
		return nil
	}
	if err := m.FailOn(op, key); err != nil {
		return geoquiz.TransientStoreError("memory store: "+op+" failed", err)
	}
	return nil
}

// GetItem implements geoquiz.Store.
func (m *MemoryStore) GetItem(ctx context.Context, key geoquiz.Key) (geoquiz.Item, error) {
	if err := m.fail(OpGet, key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[key]
	if !ok {
		return nil, geoquiz.ErrItemNotFound
	}
	return maps.Clone(item), nil
}

// PutItem implements geoquiz.Store.
func (m *MemoryStore) PutItem(ctx context.Context, item geoquiz.Item) error {
	key, err := geoquiz.UnmarshalTableKey(item)
	if err != nil {
		return geoquiz.TransientStoreError("memory store: invalid item", err)
	}
	if err := m.fail(OpPut, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = maps.Clone(item)
	return nil
}

// QueryPrefix implements geoquiz.Store.
func (m *MemoryStore) QueryPrefix(ctx context.Context, partition, sortPrefix string) ([]geoquiz.Item, error) {
	if err := m.fail(OpQuery, geoquiz.Key{Partition: partition, Sort: sortPrefix}); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []geoquiz.Item
	for _, key := range m.sortedKeys() {
		if key.Partition == partition && strings.HasPrefix(key.Sort, sortPrefix) {
			items = append(items, maps.Clone(m.items[key]))
		}
	}
	return items, nil
}

// ScanAll implements geoquiz.Store.
func (m *MemoryStore) ScanAll(ctx context.Context, filter geoquiz.Filter) ([]geoquiz.Item, error) {
	if err := m.fail(OpScan, geoquiz.Key{}); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []geoquiz.Item
	for _, key := range m.sortedKeys() {
		if filter.Match(m.items[key]) {
			items = append(items, maps.Clone(m.items[key]))
		}
	}
	return items, nil
}

// DeleteItem implements geoquiz.Store.
func (m *MemoryStore) DeleteItem(ctx context.Context, key geoquiz.Key) error {
	if err := m.fail(OpDelete, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Len returns the number of stored items.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Has reports whether an item is stored under key.
func (m *MemoryStore) Has(key geoquiz.Key) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Items returns a snapshot of every stored item in key order.
func (m *MemoryStore) Items() []geoquiz.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]geoquiz.Item, 0, len(m.items))
	for _, key := range m.sortedKeys() {
		items = append(items, maps.Clone(m.items[key]))
	}
	return items
}

// Calls returns how many times the named operation was invoked.
func (m *MemoryStore) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// sortedKeys must be called with the lock held.
func (m *MemoryStore) sortedKeys() []geoquiz.Key {
	keys := slices.Collect(maps.Keys(m.items))
	slices.SortFunc(keys, func(a, b geoquiz.Key) int {
		return cmp.Or(
			cmp.Compare(a.Partition, b.Partition),
			cmp.Compare(a.Sort, b.Sort),
		)
	})
	return keys
}
