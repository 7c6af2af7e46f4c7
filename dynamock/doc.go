// Package dynamock provides testing utilities for the geoquiz store.
//
// This package includes:
//   - MemoryStore, an in-memory geoquiz.Store with failure injection
//   - An expectation-based mock DynamoDB client for unit testing DynamoStore
//   - Fixture builders for users, quizzes and questions
//   - Seeding helpers, including JSON fixtures and batch writes
//   - DynamoDB Local helpers with automatic table cleanup
//
// # Memory Store
//
//	store := dynamock.NewMemoryStore()
//	quizzes := geoquiz.NewQuizRepository(store)
//
//	store.FailOn = func(op string, key geoquiz.Key) error {
//		if op == dynamock.OpDelete {
//			return errors.New("throttled")
//		}
//		return nil
//	}
//
// # Mock Client
//
//	mock := dynamock.NewMockClient(t)
//	mock.GetFunc = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
//		return &dynamodb.GetItemOutput{}, nil
//	}
//	store := geoquiz.NewDynamoStore(geoquiz.NewTable("test-table"), mock)
//
// Operations without an expectation fail the test.
//
// # Fixtures
//
//	seeder := dynamock.NewSeedTestData(store)
//	err := seeder.SeedQuiz(ctx,
//		dynamock.NewQuiz("Q1", dynamock.WithOwner("U1")),
//		dynamock.NewQuestion("", "X1", dynamock.WithLocation(10, 20)),
//	)
//
// # Local DynamoDB
//
//	dynamock.RunIntegrationTest(t, nil, func(local *dynamock.LocalDynamoDB, table *geoquiz.Table) {
//		store := geoquiz.NewDynamoStore(table, local.Client)
//		// ...
//	})
package dynamock
