package dynamock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nisimpson/geoquiz"
)

// SeedDocument is the JSON fixture format read by [SeedTestData.SeedFromJSON].
//
//	{
//	  "users": [{"id": "u1", "username": "alice", "passwordHash": "..."}],
//	  "quizzes": [{
//	    "id": "q1", "name": "City Hunt", "createdBy": "u1",
//	    "questions": [{"id": "x1", "question": "Where?", "answer": "Here",
//	                   "longitude": 10, "latitude": 20}]
//	  }]
//	}
type SeedDocument struct {
	Users   []SeedUser `json:"users"`
	Quizzes []SeedQuiz `json:"quizzes"`
}

// SeedUser is a user fixture.
type SeedUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// SeedQuiz is a quiz fixture with its questions.
type SeedQuiz struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedBy   string         `json:"createdBy"`
	Questions   []SeedQuestion `json:"questions"`
}

// SeedQuestion is a question fixture.
type SeedQuestion struct {
	ID        string  `json:"id"`
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// SeedFromJSON reads a [SeedDocument] from r and persists every user, quiz and
// question it contains. Returns the number of items saved and any errors
// generated.
func (s *SeedTestData) SeedFromJSON(ctx context.Context, r io.Reader) (int, error) {
	var doc SeedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	entities, err := doc.entities()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entity := range entities {
		if err := s.SeedEntity(ctx, entity); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func (doc SeedDocument) entities() ([]geoquiz.Marshaler, error) {
	var entities []geoquiz.Marshaler

	for i, u := range doc.Users {
		if u.ID == "" || u.Username == "" {
			return nil, fmt.Errorf("user at index %d requires an id and username", i)
		}
		entities = append(entities, NewUser(u.ID, u.Username, u.PasswordHash))
	}

	for i, q := range doc.Quizzes {
		if q.ID == "" {
			return nil, fmt.Errorf("quiz at index %d missing required 'id' field", i)
		}
		entities = append(entities, NewQuiz(q.ID,
			WithName(q.Name),
			WithDescription(q.Description),
			WithOwner(q.CreatedBy),
		))

		for j, x := range q.Questions {
			if x.ID == "" {
				return nil, fmt.Errorf("question %d of quiz %s missing required 'id' field", j, q.ID)
			}
			entities = append(entities, NewQuestion(q.ID, x.ID,
				WithPrompt(x.Question, x.Answer),
				WithLocation(x.Longitude, x.Latitude),
			))
		}
	}

	return entities, nil
}
