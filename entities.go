package geoquiz

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// User is a registered account.
type User struct {
	ID           string    `dynamodbav:"userId" json:"userId"`
	Username     string    `dynamodbav:"username" json:"username"`
	PasswordHash string    `dynamodbav:"password" json:"-"`
	CreatedAt    time.Time `dynamodbav:"-" json:"createdAt"`
}

// MarshalSelf implements Marshaler. Users occupy a single row and carry their
// username on the ref index sort key.
func (u *User) MarshalSelf(opts *MarshalOptions) error {
	opts.WithSelfTarget(PrefixUser, u.ID)
	opts.RefSortKey = u.Username
	if !u.CreatedAt.IsZero() {
		opts.Created = u.CreatedAt
	}
	return nil
}

// UnmarshalSelf implements Unmarshaler.
func (u *User) UnmarshalSelf(rec *Record) error {
	id, ok := ParseID(PrefixUser, rec.Source)
	if !ok {
		return fmt.Errorf("not a user key: %s", rec.Source)
	}
	u.ID = id
	u.CreatedAt = rec.CreatedAt
	return nil
}

// Quiz is the summary of a quiz, without its questions.
type Quiz struct {
	ID          string    `dynamodbav:"quizId" json:"quizId"`
	Name        string    `dynamodbav:"name" json:"name"`
	Description string    `dynamodbav:"description" json:"description"`
	OwnerID     string    `dynamodbav:"createdBy" json:"createdBy"`
	CreatedAt   time.Time `dynamodbav:"-" json:"createdAt"`
}

// MarshalSelf implements Marshaler.
func (q *Quiz) MarshalSelf(opts *MarshalOptions) error {
	opts.WithSelfTarget(PrefixQuiz, q.ID)
	if !q.CreatedAt.IsZero() {
		opts.Created = q.CreatedAt
	} else {
		opts.Created = opts.Tick()
	}
	opts.RefSortKey = opts.Created.Format(time.RFC3339Nano)
	return nil
}

// UnmarshalSelf implements Unmarshaler.
func (q *Quiz) UnmarshalSelf(rec *Record) error {
	id, ok := ParseID(PrefixQuiz, rec.Source)
	if !ok || rec.Source != rec.Target {
		return fmt.Errorf("not a quiz key: %s/%s", rec.Source, rec.Target)
	}
	q.ID = id
	q.CreatedAt = rec.CreatedAt
	return nil
}

// Question is a geotagged question/answer pair of a quiz.
type Question struct {
	ID        string    `dynamodbav:"questionId" json:"questionId"`
	QuizID    string    `dynamodbav:"-" json:"-"`
	Question  string    `dynamodbav:"question" json:"question"`
	Answer    string    `dynamodbav:"answer" json:"answer"`
	Longitude float64   `dynamodbav:"longitude" json:"longitude"`
	Latitude  float64   `dynamodbav:"latitude" json:"latitude"`
	CreatedAt time.Time `dynamodbav:"-" json:"createdAt"`
}

// MarshalSelf implements Marshaler. Questions are stored in the partition of
// their quiz.
func (q *Question) MarshalSelf(opts *MarshalOptions) error {
	opts.SourcePrefix = PrefixQuiz
	opts.SourceID = q.QuizID
	opts.TargetPrefix = PrefixQuestion
	opts.TargetID = q.ID
	opts.Label = QuestionsLabel(q.QuizID)
	if !q.CreatedAt.IsZero() {
		opts.Created = q.CreatedAt
	} else {
		opts.Created = opts.Tick()
	}
	opts.RefSortKey = opts.Created.Format(time.RFC3339Nano)
	return nil
}

// UnmarshalSelf implements Unmarshaler.
func (q *Question) UnmarshalSelf(rec *Record) error {
	quizID, ok := ParseID(PrefixQuiz, rec.Source)
	if !ok {
		return fmt.Errorf("not a quiz partition: %s", rec.Source)
	}
	id, ok := ParseID(PrefixQuestion, rec.Target)
	if !ok {
		return fmt.Errorf("not a question key: %s", rec.Target)
	}
	q.QuizID = quizID
	q.ID = id
	q.CreatedAt = rec.CreatedAt
	return nil
}

// MarshalJSON encodes coordinates that are not finite numbers as null.
func (q Question) MarshalJSON() ([]byte, error) {
	type question Question
	return json.Marshal(struct {
		question
		Longitude *float64 `json:"longitude"`
		Latitude  *float64 `json:"latitude"`
	}{
		question:  question(q),
		Longitude: finite(q.Longitude),
		Latitude:  finite(q.Latitude),
	})
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// QuizDetail is a quiz together with its questions, ordered by sort key.
type QuizDetail struct {
	Quiz
	Questions []Question `json:"questions"`
}

// Coordinate is a longitude or latitude as supplied by a caller, before it is
// parsed. The zero value is a missing coordinate.
type Coordinate struct {
	text string
	set  bool
}

// CoordinateOf returns a coordinate from its text form.
func CoordinateOf(text string) Coordinate {
	return Coordinate{text: text, set: true}
}

// CoordinateFloat returns a coordinate from a number.
func CoordinateFloat(f float64) Coordinate {
	return CoordinateOf(strconv.FormatFloat(f, 'f', -1, 64))
}

// IsSet reports whether the coordinate was supplied.
func (c Coordinate) IsSet() bool {
	return c.set
}

// Float parses the coordinate. Text that is not a number yields NaN rather
// than an error.
func (c Coordinate) Float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// UnmarshalJSON accepts a JSON number or string. A JSON null is a missing
// coordinate.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*c = Coordinate{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = CoordinateOf(s)
		return nil
	}
	*c = CoordinateOf(string(b))
	return nil
}
