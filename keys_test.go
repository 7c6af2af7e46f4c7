package geoquiz

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want Key
	}{
		{name: "user", key: UserKey("U1"), want: Key{Partition: "USER#U1", Sort: "USER#U1"}},
		{name: "quiz", key: QuizKey("Q1"), want: Key{Partition: "QUIZ#Q1", Sort: "QUIZ#Q1"}},
		{name: "question", key: QuestionKey("Q1", "X1"), want: Key{Partition: "QUIZ#Q1", Sort: "QUESTION#X1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, tt.key)
			}
		})
	}
}

func TestQuestionPrefixFor(t *testing.T) {
	partition, prefix := QuestionPrefixFor("Q1")

	if partition != QuizKey("Q1").Partition {
		t.Errorf("Expected partition %s, got %s", QuizKey("Q1").Partition, partition)
	}
	if prefix != "QUESTION#" {
		t.Errorf("Expected prefix QUESTION#, got %s", prefix)
	}

	// the quiz row of the partition must not match the question prefix
	if len(QuizKey("Q1").Sort) >= len(prefix) && QuizKey("Q1").Sort[:len(prefix)] == prefix {
		t.Error("Quiz sort key matches question prefix")
	}
}

func TestPrefixesDoNotOverlap(t *testing.T) {
	prefixes := []string{PrefixUser, PrefixQuiz, PrefixQuestion}

	for _, a := range prefixes {
		for _, b := range prefixes {
			if a == b {
				continue
			}
			if _, ok := ParseID(a, EntityKey(b, "x")); ok {
				t.Errorf("Key of %s parsed as %s", b, a)
			}
		}
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID(PrefixQuiz, "QUIZ#abc#def")
	if !ok || id != "abc#def" {
		t.Errorf("Expected abc#def, got %q (%v)", id, ok)
	}

	if _, ok := ParseID(PrefixQuiz, "QUIZabc"); ok {
		t.Error("Expected a key without delimiter to be rejected")
	}
}

func TestQuestionsLabel(t *testing.T) {
	if got := QuestionsLabel("Q1"); got != "QUIZ/Q1/questions" {
		t.Errorf("Expected QUIZ/Q1/questions, got %s", got)
	}
}

func TestKeyItem(t *testing.T) {
	item := QuestionKey("Q1", "X1").Item()

	if len(item) != 2 {
		t.Fatalf("Expected 2 attributes, got %d", len(item))
	}

	hk, ok := item[AttributeNameSource].(*types.AttributeValueMemberS)
	if !ok || hk.Value != "QUIZ#Q1" {
		t.Errorf("Unexpected hk: %v", item[AttributeNameSource])
	}

	sk, ok := item[AttributeNameTarget].(*types.AttributeValueMemberS)
	if !ok || sk.Value != "QUESTION#X1" {
		t.Errorf("Unexpected sk: %v", item[AttributeNameTarget])
	}
}
