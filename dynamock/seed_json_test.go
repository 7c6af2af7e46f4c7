package dynamock

import (
	"context"
	"strings"
	"testing"

	"github.com/nisimpson/geoquiz"
)

const cityHunt = `{
  "users": [{"id": "U1", "username": "alice", "passwordHash": "hash"}],
  "quizzes": [{
    "id": "Q1",
    "name": "City Hunt",
    "createdBy": "U1",
    "questions": [
      {"id": "X1", "question": "Where?", "answer": "Here", "longitude": 10, "latitude": 20},
      {"id": "X2", "question": "When?", "answer": "Now", "longitude": -1.5, "latitude": 0}
    ]
  }]
}`

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	count, err := NewSeedTestData(store).SeedFromJSON(ctx, strings.NewReader(cityHunt))
	if err != nil {
		t.Fatalf("SeedFromJSON failed: %v", err)
	}

	if count != 4 {
		t.Errorf("Expected 4 seeded items, got %d", count)
	}

	for _, key := range []geoquiz.Key{
		geoquiz.UserKey("U1"),
		geoquiz.QuizKey("Q1"),
		geoquiz.QuestionKey("Q1", "X1"),
		geoquiz.QuestionKey("Q1", "X2"),
	} {
		if !store.Has(key) {
			t.Errorf("Expected item %s/%s", key.Partition, key.Sort)
		}
	}
}

func TestSeedFromJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid json", doc: `{`},
		{name: "user without username", doc: `{"users":[{"id":"U1"}]}`},
		{name: "quiz without id", doc: `{"quizzes":[{"name":"x"}]}`},
		{name: "question without id", doc: `{"quizzes":[{"id":"Q1","questions":[{"question":"x"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			_, err := NewSeedTestData(store).SeedFromJSON(context.Background(), strings.NewReader(tt.doc))
			if err == nil {
				t.Error("Expected error, got nil")
			}
			if store.Len() != 0 {
				t.Errorf("Expected nothing seeded, got %d items", store.Len())
			}
		})
	}
}
