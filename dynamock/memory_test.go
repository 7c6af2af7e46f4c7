package dynamock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nisimpson/geoquiz"
)

func TestMemoryStore_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	quiz := NewQuiz("Q1", WithOwner("U1"))

	if _, err := store.GetItem(ctx, geoquiz.QuizKey("Q1")); !errors.Is(err, geoquiz.ErrItemNotFound) {
		t.Fatalf("Expected ErrItemNotFound, got %v", err)
	}

	if err := store.PutItem(ctx, MustMarshalItem(quiz)); err != nil {
		t.Fatalf("PutItem failed: %v", err)
	}

	item, err := store.GetItem(ctx, geoquiz.QuizKey("Q1"))
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}

	var got geoquiz.Quiz
	if _, err := geoquiz.UnmarshalRecord(item, &got); err != nil {
		t.Fatalf("UnmarshalRecord failed: %v", err)
	}
	if got.ID != "Q1" || got.OwnerID != "U1" {
		t.Errorf("Unexpected quiz: %+v", got)
	}

	if err := store.DeleteItem(ctx, geoquiz.QuizKey("Q1")); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if err := store.DeleteItem(ctx, geoquiz.QuizKey("Q1")); err != nil {
		t.Errorf("Deleting a missing item should succeed, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d items", store.Len())
	}
}

func TestMemoryStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.PutItem(ctx, MustMarshalItem(NewQuiz("Q1", WithName("first"))))
	_ = store.PutItem(ctx, MustMarshalItem(NewQuiz("Q1", WithName("second"))))

	if store.Len() != 1 {
		t.Fatalf("Expected 1 item, got %d", store.Len())
	}

	item, _ := store.GetItem(ctx, geoquiz.QuizKey("Q1"))
	var got geoquiz.Quiz
	if _, err := geoquiz.UnmarshalRecord(item, &got); err != nil {
		t.Fatalf("UnmarshalRecord failed: %v", err)
	}
	if got.Name != "second" {
		t.Errorf("Expected name second, got %s", got.Name)
	}
}

func TestMemoryStore_QueryPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seeder := NewSeedTestData(store)

	err := seeder.SeedQuiz(ctx, NewQuiz("Q1"),
		NewQuestion("", "B"),
		NewQuestion("", "A"),
	)
	if err != nil {
		t.Fatalf("SeedQuiz failed: %v", err)
	}
	if err := seeder.SeedQuiz(ctx, NewQuiz("Q2"), NewQuestion("", "C")); err != nil {
		t.Fatalf("SeedQuiz failed: %v", err)
	}

	partition, prefix := geoquiz.QuestionPrefixFor("Q1")
	items, err := store.QueryPrefix(ctx, partition, prefix)
	if err != nil {
		t.Fatalf("QueryPrefix failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	want := []string{"QUESTION#A", "QUESTION#B"}
	for i, item := range items {
		key, _ := geoquiz.UnmarshalTableKey(item)
		if key.Sort != want[i] {
			t.Errorf("Item %d: expected %s, got %s", i, want[i], key.Sort)
		}
	}
}

func TestMemoryStore_ScanAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seeder := NewSeedTestData(store)

	_ = seeder.SeedQuiz(ctx, NewQuiz("Q1"), NewQuestion("", "X1"))
	_ = seeder.SeedEntity(ctx, NewUser("U1", "alice", "hash"))

	t.Run("zero filter matches everything", func(t *testing.T) {
		items, err := store.ScanAll(ctx, geoquiz.Filter{})
		if err != nil {
			t.Fatalf("ScanAll failed: %v", err)
		}
		if len(items) != 3 {
			t.Errorf("Expected 3 items, got %d", len(items))
		}
	})

	t.Run("equal and begins with", func(t *testing.T) {
		items, err := store.ScanAll(ctx, geoquiz.Filter{
			Equal:      map[string]string{geoquiz.AttributeNameLabel: geoquiz.PrefixQuiz},
			BeginsWith: map[string]string{geoquiz.AttributeNameTarget: "QUIZ#"},
		})
		if err != nil {
			t.Fatalf("ScanAll failed: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("Expected 1 item, got %d", len(items))
		}
	})
}

func TestMemoryStore_FailOn(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("boom")
	store.FailOn = func(op string, key geoquiz.Key) error {
		if op == OpPut {
			return boom
		}
		return nil
	}

	err := store.PutItem(ctx, MustMarshalItem(NewQuiz("Q1")))
	if !errors.Is(err, geoquiz.ErrStore) {
		t.Errorf("Expected store error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected cause to be preserved, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Failed put should not be applied")
	}
	if store.Calls(OpPut) != 1 {
		t.Errorf("Expected 1 put call, got %d", store.Calls(OpPut))
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := NewQuestion("Q1", string(rune('a'+i%26))+string(rune('a'+i/26)))
			if err := store.PutItem(ctx, MustMarshalItem(q)); err != nil {
				t.Errorf("PutItem failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Errorf("Expected 50 items, got %d", store.Len())
	}
}
