package geoquiz_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nisimpson/geoquiz"
	"github.com/nisimpson/geoquiz/dynamock"
)

// Example walks a quiz through its lifecycle on an in-memory store.
func Example() {
	ctx := context.Background()

	// any Store works here, including geoquiz.NewDynamoStore
	store := dynamock.NewMemoryStore()
	repo := geoquiz.NewQuizRepository(store,
		geoquiz.WithIDGenerator(sequentialIDs("id-")),
		geoquiz.WithClock(func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }),
	)

	quiz, err := repo.CreateQuiz(ctx, "City Hunt", "Landmarks downtown", "U1")
	if err != nil {
		log.Fatal(err)
	}

	_, err = repo.AddQuestion(ctx, geoquiz.NewQuestion{
		QuizID:      quiz.ID,
		Question:    "Where?",
		Answer:      "Here",
		Longitude:   geoquiz.CoordinateFloat(10),
		Latitude:    geoquiz.CoordinateFloat(20),
		RequesterID: "U1",
	})
	if err != nil {
		log.Fatal(err)
	}

	detail, err := repo.GetQuiz(ctx, quiz.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s has %d question(s)\n", detail.Name, len(detail.Questions))

	deleted, err := repo.DeleteQuiz(ctx, quiz.ID, "U1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Deleted %d question(s)\n", deleted)

	_, err = repo.GetQuiz(ctx, quiz.ID)
	fmt.Println(err, geoquiz.KindOf(err))

	// Output:
	// City Hunt has 1 question(s)
	// Deleted 1 question(s)
	// Quiz not found not_found
}

// ExampleTable_MarshalBatch shows how puts are split to fit BatchWriteItem.
func ExampleTable_MarshalBatch() {
	table := geoquiz.NewTable("quiz-table")

	var items []geoquiz.Item
	for i := range 30 {
		items = append(items, dynamock.MustMarshalItem(dynamock.NewQuestion("Q1", fmt.Sprint(i))))
	}

	for _, batch := range table.MarshalBatch(items) {
		fmt.Println(len(batch.RequestItems["quiz-table"]))
	}

	// Output:
	// 25
	// 5
}

// ExampleQuestionKey shows the key layout of a question row.
func ExampleQuestionKey() {
	key := geoquiz.QuestionKey("Q1", "X1")
	fmt.Println(key.Partition, key.Sort, geoquiz.QuestionsLabel("Q1"))

	// Output:
	// QUIZ#Q1 QUESTION#X1 QUIZ/Q1/questions
}
