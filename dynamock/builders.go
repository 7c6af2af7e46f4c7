package dynamock

import (
	"time"

	"github.com/nisimpson/geoquiz"
)

// FixtureTime is the creation time given to fixtures that do not set one.
var FixtureTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// QuizOption is a functional option for configuring quiz fixtures.
type QuizOption func(*geoquiz.Quiz)

// NewQuiz creates a quiz fixture with the given options applied.
func NewQuiz(id string, opts ...QuizOption) *geoquiz.Quiz {
	quiz := &geoquiz.Quiz{
		ID:        id,
		Name:      "Quiz " + id,
		CreatedAt: FixtureTime,
	}
	for _, opt := range opts {
		opt(quiz)
	}
	return quiz
}

// WithName sets the quiz name.
func WithName(name string) QuizOption {
	return func(q *geoquiz.Quiz) {
		q.Name = name
	}
}

// WithDescription sets the quiz description.
func WithDescription(description string) QuizOption {
	return func(q *geoquiz.Quiz) {
		q.Description = description
	}
}

// WithOwner sets the quiz owner.
func WithOwner(userID string) QuizOption {
	return func(q *geoquiz.Quiz) {
		q.OwnerID = userID
	}
}

// WithQuizCreated sets the quiz creation time.
func WithQuizCreated(created time.Time) QuizOption {
	return func(q *geoquiz.Quiz) {
		q.CreatedAt = created
	}
}

// QuestionOption is a functional option for configuring question fixtures.
type QuestionOption func(*geoquiz.Question)

// NewQuestion creates a question fixture in quizID with the given options
// applied.
func NewQuestion(quizID, id string, opts ...QuestionOption) *geoquiz.Question {
	question := &geoquiz.Question{
		ID:        id,
		QuizID:    quizID,
		Question:  "Question " + id,
		Answer:    "Answer " + id,
		CreatedAt: FixtureTime,
	}
	for _, opt := range opts {
		opt(question)
	}
	return question
}

// WithPrompt sets the question text and answer.
func WithPrompt(question, answer string) QuestionOption {
	return func(q *geoquiz.Question) {
		q.Question = question
		q.Answer = answer
	}
}

// WithLocation sets the question coordinates.
func WithLocation(longitude, latitude float64) QuestionOption {
	return func(q *geoquiz.Question) {
		q.Longitude = longitude
		q.Latitude = latitude
	}
}

// NewUser creates a user fixture. The password hash is stored as given.
func NewUser(id, username, passwordHash string) *geoquiz.User {
	return &geoquiz.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    FixtureTime,
	}
}

// MustMarshalItem marshals a fixture into a table item and panics on error.
func MustMarshalItem(in geoquiz.Marshaler) geoquiz.Item {
	item, err := geoquiz.MarshalItem(in)
	if err != nil {
		panic(err)
	}
	return item
}
