package geoquiz_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/nisimpson/geoquiz"
	"github.com/nisimpson/geoquiz/dynamock"
	"github.com/nisimpson/geoquiz/dynamock/assert"
)

func TestSweepOrphanedQuestions(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *dynamock.MemoryStore {
		t.Helper()
		store := dynamock.NewMemoryStore()
		seeder := dynamock.NewSeedTestData(store)

		err := seeder.SeedQuiz(ctx, dynamock.NewQuiz("Q1", dynamock.WithOwner("U1")),
			dynamock.NewQuestion("", "A"),
			dynamock.NewQuestion("", "B"),
		)
		if err != nil {
			t.Fatalf("SeedQuiz failed: %v", err)
		}

		// questions whose quiz row is gone
		err = seeder.SeedEntities(ctx,
			dynamock.NewQuestion("Q2", "C"),
			dynamock.NewQuestion("Q2", "D"),
			dynamock.NewQuestion("Q3", "E"),
			dynamock.NewUser("U1", "alice", "hash"),
		)
		if err != nil {
			t.Fatalf("SeedEntities failed: %v", err)
		}
		return store
	}

	t.Run("removes orphans only", func(t *testing.T) {
		store := seed(t)
		var logs bytes.Buffer
		repo := geoquiz.NewQuizRepository(store,
			geoquiz.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

		removed, err := repo.SweepOrphanedQuestions(ctx)
		if err != nil {
			t.Fatalf("SweepOrphanedQuestions failed: %v", err)
		}
		if removed != 3 {
			t.Errorf("Expected 3 removed, got %d", removed)
		}

		assert.Items(t, store.Items()).
			HasCount(4).
			ContainsQuiz("Q1").
			ContainsQuestion("Q1", "A").
			ContainsQuestion("Q1", "B").
			ContainsKey(geoquiz.UserKey("U1")).
			NotContainsKey(geoquiz.QuestionKey("Q2", "C")).
			NotContainsKey(geoquiz.QuestionKey("Q3", "E"))

		if got := strings.Count(logs.String(), "removed orphaned questions"); got != 2 {
			t.Errorf("Expected one log line per orphaned partition, got %d:\n%s", got, logs.String())
		}
	})

	t.Run("nothing to do", func(t *testing.T) {
		store := dynamock.NewMemoryStore()
		_ = dynamock.NewSeedTestData(store).SeedQuiz(ctx, dynamock.NewQuiz("Q1"), dynamock.NewQuestion("", "A"))

		removed, err := geoquiz.NewQuizRepository(store).SweepOrphanedQuestions(ctx)
		if err != nil || removed != 0 {
			t.Errorf("Expected nothing removed, got %d (%v)", removed, err)
		}
		if store.Calls(dynamock.OpDelete) != 0 {
			t.Error("Expected no deletions")
		}
	})

	t.Run("scan failure", func(t *testing.T) {
		store := seed(t)
		store.FailOn = func(op string, key geoquiz.Key) error {
			if op == dynamock.OpScan {
				return errors.New("throttled")
			}
			return nil
		}

		_, err := geoquiz.NewQuizRepository(store).SweepOrphanedQuestions(ctx)
		if !errors.Is(err, geoquiz.ErrStore) {
			t.Errorf("Expected store error, got %v", err)
		}
		if store.Len() != 7 {
			t.Errorf("Expected store untouched, got %d rows", store.Len())
		}
	})

	t.Run("lookup failure keeps questions", func(t *testing.T) {
		store := seed(t)
		store.FailOn = func(op string, key geoquiz.Key) error {
			if op == dynamock.OpGet {
				return errors.New("throttled")
			}
			return nil
		}

		_, err := geoquiz.NewQuizRepository(store).SweepOrphanedQuestions(ctx)
		if !errors.Is(err, geoquiz.ErrStore) {
			t.Errorf("Expected store error, got %v", err)
		}
		if store.Calls(dynamock.OpDelete) != 0 {
			t.Error("Expected no deletions when the quiz lookup fails")
		}
	})
}
