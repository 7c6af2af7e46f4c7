package geoquiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nisimpson/geoquiz"
	"github.com/nisimpson/geoquiz/dynamock"
	"github.com/nisimpson/geoquiz/identity"
	"golang.org/x/crypto/bcrypt"
)

// TestIntegration runs the quiz lifecycle against DynamoDB Local, with and
// without the ref index. Start DynamoDB Local on port 8000 to run it:
//
//	docker run -p 8000:8000 amazon/dynamodb-local
func TestIntegration(t *testing.T) {
	for _, refIndex := range []string{"", dynamock.DefaultRefIndexName} {
		name := "scan"
		if refIndex != "" {
			name = "ref index"
		}

		t.Run(name, func(t *testing.T) {
			cfg := dynamock.DefaultIntegrationTestConfig()
			cfg.RefIndex = refIndex

			dynamock.RunIntegrationTest(t, cfg, func(local *dynamock.LocalDynamoDB, table *geoquiz.Table) {
				ctx := context.Background()
				store := geoquiz.NewDynamoStore(table, local.Client)

				accounts := geoquiz.NewAccountRepository(store, identity.BcryptHasher{Cost: bcrypt.MinCost})
				quizzes := geoquiz.NewQuizRepository(store)

				userID, err := accounts.Register(ctx, "alice", "secret")
				if err != nil {
					t.Fatalf("Register failed: %v", err)
				}
				principal, err := accounts.VerifyCredentials(ctx, "alice", "secret")
				if err != nil || principal.UserID != userID {
					t.Fatalf("VerifyCredentials: got %+v (%v)", principal, err)
				}

				quiz, err := quizzes.CreateQuiz(ctx, "City Hunt", "Downtown", userID)
				if err != nil {
					t.Fatalf("CreateQuiz failed: %v", err)
				}

				for range 3 {
					if _, err := quizzes.AddQuestion(ctx, question(quiz.ID, userID)); err != nil {
						t.Fatalf("AddQuestion failed: %v", err)
					}
				}

				list, err := quizzes.ListQuizzes(ctx)
				if err != nil {
					t.Fatalf("ListQuizzes failed: %v", err)
				}
				if len(list) != 1 || list[0].ID != quiz.ID {
					t.Errorf("Expected only quiz %s, got %+v", quiz.ID, list)
				}

				detail, err := quizzes.GetQuiz(ctx, quiz.ID)
				if err != nil {
					t.Fatalf("GetQuiz failed: %v", err)
				}
				if len(detail.Questions) != 3 || detail.OwnerID != userID {
					t.Errorf("Unexpected detail %+v", detail)
				}

				if _, err := quizzes.DeleteQuiz(ctx, quiz.ID, "someone-else"); !errors.Is(err, geoquiz.ErrAuthorization) {
					t.Errorf("Expected authorization error, got %v", err)
				}

				deleted, err := quizzes.DeleteQuiz(ctx, quiz.ID, userID)
				if err != nil || deleted != 3 {
					t.Fatalf("Expected 3 deleted questions, got %d (%v)", deleted, err)
				}
				if _, err := quizzes.GetQuiz(ctx, quiz.ID); !errors.Is(err, geoquiz.ErrNotFound) {
					t.Errorf("Expected not found, got %v", err)
				}
			})
		})
	}
}

func TestIntegration_BatchSeedAndSweep(t *testing.T) {
	dynamock.RunIntegrationTest(t, nil, func(local *dynamock.LocalDynamoDB, table *geoquiz.Table) {
		ctx := context.Background()

		entities := []geoquiz.Marshaler{dynamock.NewQuiz("Q1", dynamock.WithOwner("U1"))}
		for _, id := range []string{"A", "B", "C"} {
			entities = append(entities, dynamock.NewQuestion("Q1", id), dynamock.NewQuestion("Q2", id))
		}
		if err := dynamock.BatchSeed(ctx, local.Client, table, entities...); err != nil {
			t.Fatalf("BatchSeed failed: %v", err)
		}

		repo := geoquiz.NewQuizRepository(geoquiz.NewDynamoStore(table, local.Client))
		removed, err := repo.SweepOrphanedQuestions(ctx)
		if err != nil {
			t.Fatalf("SweepOrphanedQuestions failed: %v", err)
		}
		if removed != 3 {
			t.Errorf("Expected 3 orphans removed, got %d", removed)
		}

		detail, err := repo.GetQuiz(ctx, "Q1")
		if err != nil || len(detail.Questions) != 3 {
			t.Errorf("Expected Q1 intact, got %+v (%v)", detail, err)
		}
	})
}
