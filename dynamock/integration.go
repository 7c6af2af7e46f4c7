package dynamock

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nisimpson/geoquiz"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	Port             int
	SkipIfNotRunning bool
	TablePrefix      string
	RefIndex         string // Optional ref index to create on the test table
	CleanupTimeout   time.Duration
}

// DefaultIntegrationTestConfig returns a default configuration for integration tests.
func DefaultIntegrationTestConfig() *IntegrationTestConfig {
	return &IntegrationTestConfig{
		Port:             DefaultLocalPort,
		SkipIfNotRunning: true,
		TablePrefix:      "integration-test",
		CleanupTimeout:   30 * time.Second,
	}
}

// NewTestTable generates a unique table name for testing.
func NewTestTable(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// RunIntegrationTest creates an isolated table on DynamoDB Local, runs fn with
// a table configuration for it, and deletes the table afterwards. The test is
// skipped in short mode or when DynamoDB Local is not running.
func RunIntegrationTest(t *testing.T, config *IntegrationTestConfig, fn func(local *LocalDynamoDB, table *geoquiz.Table)) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if config == nil {
		config = DefaultIntegrationTestConfig()
	}

	local := NewLocalDynamoDB(config.Port)
	ctx := context.Background()

	if !local.IsAvailable(ctx) {
		if config.SkipIfNotRunning {
			t.Skipf("DynamoDB Local not available on port %d", config.Port)
		}
		t.Fatalf("DynamoDB Local not available on port %d", config.Port)
	}

	tableName := NewTestTable(config.TablePrefix)
	if err := local.CreateQuizTable(ctx, tableName, config.RefIndex); err != nil {
		t.Fatalf("Failed to create test table %s: %v", tableName, err)
	}

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), config.CleanupTimeout)
		defer cancel()

		if err := local.DeleteTable(cleanupCtx, tableName); err != nil {
			t.Errorf("Failed to cleanup table %s: %v", tableName, err)
		}
	})

	table := geoquiz.NewTable(tableName)
	table.RefIndexName = config.RefIndex

	fn(local, table)
}

// SeedTestData is a helper for seeding fixtures into a store.
type SeedTestData struct {
	store geoquiz.Store
}

// NewSeedTestData creates a new test data seeder.
func NewSeedTestData(store geoquiz.Store) *SeedTestData {
	return &SeedTestData{store: store}
}

// SeedEntity seeds a single entity.
func (s *SeedTestData) SeedEntity(ctx context.Context, entity geoquiz.Marshaler) error {
	item, err := geoquiz.MarshalItem(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if err := s.store.PutItem(ctx, item); err != nil {
		return fmt.Errorf("failed to put entity: %w", err)
	}

	return nil
}

// SeedEntities seeds multiple entities in order.
func (s *SeedTestData) SeedEntities(ctx context.Context, entities ...geoquiz.Marshaler) error {
	for _, entity := range entities {
		if err := s.SeedEntity(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// SeedQuiz seeds a quiz and its questions.
func (s *SeedTestData) SeedQuiz(ctx context.Context, quiz *geoquiz.Quiz, questions ...*geoquiz.Question) error {
	entities := []geoquiz.Marshaler{quiz}
	for _, q := range questions {
		q.QuizID = quiz.ID
		entities = append(entities, q)
	}
	return s.SeedEntities(ctx, entities...)
}

// BatchSeed writes entities directly to a DynamoDB table with batch write
// requests of at most [geoquiz.MaxBatchSize] items. Unprocessed items are
// reported as an error.
func BatchSeed(ctx context.Context, client geoquiz.DynamoDBClient, table *geoquiz.Table, entities ...geoquiz.Marshaler) error {
	items := make([]geoquiz.Item, 0, len(entities))
	for _, entity := range entities {
		item, err := geoquiz.MarshalItem(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}
		items = append(items, item)
	}

	for _, batch := range table.MarshalBatch(items) {
		out, err := client.BatchWriteItem(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to batch write: %w", err)
		}
		if n := len(out.UnprocessedItems[table.TableName]); n > 0 {
			return fmt.Errorf("batch write left %d unprocessed items", n)
		}
	}

	return nil
}

// AssertStoreEmpty fails the test if the store holds any item under the
// given partition prefix.
func AssertStoreEmpty(t *testing.T, store *MemoryStore, partitionPrefix string) {
	t.Helper()

	for _, item := range store.Items() {
		key, err := geoquiz.UnmarshalTableKey(item)
		if err != nil {
			t.Fatalf("Failed to unmarshal key: %v", err)
		}
		if strings.HasPrefix(key.Partition, partitionPrefix) {
			t.Errorf("Expected no items under %s, found %s/%s", partitionPrefix, key.Partition, key.Sort)
		}
	}
}
