// Package geoquiz provides the data-access and authorization layer of a
// location-based quiz backend over a single DynamoDB table.
//
// # Key Concepts
//
// Users, quizzes and questions live in one table keyed by a composite
// (partition, sort) pair:
//   - hk (hash key): partition entity key (prefix#id)
//   - sk (sort key): row entity key (prefix#id)
//   - label: entity type, used by the optional ref index
//   - gsi1_sk: lookup value for the ref index
//
// A question is stored in the partition of its quiz, so fetching a quiz with
// all of its questions, or deleting them together, touches one partition:
//
//	| hk       | sk          | label             |
//	| ======== | =========== | ================= |
//	| USER#U1  | USER#U1     | USER              |
//	| QUIZ#Q1  | QUIZ#Q1     | QUIZ              |
//	| QUIZ#Q1  | QUESTION#A  | QUIZ/Q1/questions |
//	| QUIZ#Q1  | QUESTION#B  | QUIZ/Q1/questions |
//
// # Basic Usage
//
//	table := geoquiz.NewTable("quiz-table")
//	store := geoquiz.NewDynamoStore(table, dynamodb.NewFromConfig(cfg))
//
//	quizzes := geoquiz.NewQuizRepository(store)
//	quiz, err := quizzes.CreateQuiz(ctx, "City Hunt", "", userID)
//
//	question, err := quizzes.AddQuestion(ctx, geoquiz.NewQuestion{
//	    QuizID:      quiz.ID,
//	    Question:    "Where?",
//	    Answer:      "Here",
//	    Longitude:   geoquiz.CoordinateFloat(10),
//	    Latitude:    geoquiz.CoordinateFloat(20),
//	    RequesterID: userID,
//	})
//
// # Authorization
//
// A quiz's owner is fixed at creation. Only the owner may add questions to a
// quiz or delete it. Reads are public.
//
// # Errors
//
// Repositories return [*Error] values classified by [Kind]. Use errors.Is
// with the Err* sentinels, or [KindOf], to branch on the kind.
//
// # Cascade Deletes
//
// Deleting a quiz deletes its questions with concurrent, independent
// deletions. The cascade is best-effort and not atomic; see
// [QuizRepository.SweepOrphanedQuestions] for reconciliation.
//
// # Ref Index
//
// Username lookup and quiz listing scan the table by default. Setting
// [Table.RefIndexName] to a global secondary index keyed on (label, gsi1_sk)
// turns both into index queries without changing the repository API.
package geoquiz
