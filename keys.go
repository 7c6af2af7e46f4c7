package geoquiz

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Entity prefixes. Each is distinct and never a prefix of another once the
// delimiter is appended, so keys of different entity types cannot collide.
const (
	PrefixUser     = "USER"
	PrefixQuiz     = "QUIZ"
	PrefixQuestion = "QUESTION"
)

const (
	// KeyDelimiter joins an entity prefix and identifier into a key.
	KeyDelimiter = "#"
	// LabelDelimiter joins label segments.
	LabelDelimiter = "/"
)

// Key is the composite primary key of a table row.
type Key struct {
	Partition string // hk
	Sort      string // sk
}

// Item returns the key as a DynamoDB key attribute map.
func (k Key) Item() Item {
	return Item{
		AttributeNameSource: &types.AttributeValueMemberS{Value: k.Partition},
		AttributeNameTarget: &types.AttributeValueMemberS{Value: k.Sort},
	}
}

// EntityKey joins prefix and id into a single key value.
func EntityKey(prefix, id string) string {
	return prefix + KeyDelimiter + id
}

// ParseID extracts the identifier from a key built with [EntityKey] for the
// given prefix. It reports false if the key belongs to another prefix.
func ParseID(prefix, key string) (string, bool) {
	return strings.CutPrefix(key, prefix+KeyDelimiter)
}

// UserKey returns the key of the user row.
func UserKey(id string) Key {
	k := EntityKey(PrefixUser, id)
	return Key{Partition: k, Sort: k}
}

// QuizKey returns the key of the quiz row.
func QuizKey(id string) Key {
	k := EntityKey(PrefixQuiz, id)
	return Key{Partition: k, Sort: k}
}

// QuestionKey returns the key of a question row. The partition is always the
// partition of the parent quiz.
func QuestionKey(quizID, questionID string) Key {
	return Key{
		Partition: EntityKey(PrefixQuiz, quizID),
		Sort:      EntityKey(PrefixQuestion, questionID),
	}
}

// QuizPrefix returns the key prefix shared by every quiz partition.
func QuizPrefix() string {
	return PrefixQuiz + KeyDelimiter
}

// QuestionPrefixFor returns the partition and sort key prefix that select
// every question of a quiz.
func QuestionPrefixFor(quizID string) (partition, sortPrefix string) {
	return EntityKey(PrefixQuiz, quizID), PrefixQuestion + KeyDelimiter
}

// QuestionsLabel returns the label of the question rows of a quiz.
// Format: "QUIZ/<quiz_id>/questions".
func QuestionsLabel(quizID string) string {
	return PrefixQuiz + LabelDelimiter + quizID + LabelDelimiter + "questions"
}
