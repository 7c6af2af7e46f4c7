package geoquiz

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// QuizRepository implements quiz and question CRUD with single-owner
// authorization.
type QuizRepository struct {
	store Store
	opts  RepositoryOptions
}

// NewQuizRepository returns a QuizRepository over store.
func NewQuizRepository(store Store, opts ...func(*RepositoryOptions)) *QuizRepository {
	return &QuizRepository{
		store: store,
		opts:  newRepositoryOptions(opts...),
	}
}

// quizFilter selects quiz rows and excludes the question rows sharing their
// partitions.
func quizFilter() Filter {
	return Filter{
		Equal: map[string]string{
			AttributeNameLabel: PrefixQuiz,
		},
		BeginsWith: map[string]string{
			AttributeNameSource: QuizPrefix(),
			AttributeNameTarget: QuizPrefix(),
		},
	}
}

// ListQuizzes returns every quiz in store order.
func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	items, err := r.store.ScanAll(ctx, quizFilter())
	if err != nil {
		return nil, err
	}

	quizzes := make([]Quiz, 0, len(items))
	if _, err := UnmarshalList(items, &quizzes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quizzes: %w", err)
	}

	return quizzes, nil
}

// CreateQuiz creates a quiz owned by ownerID.
func (r *QuizRepository) CreateQuiz(ctx context.Context, name, description, ownerID string) (*Quiz, error) {
	if name == "" {
		return nil, ValidationError("Quiz name is required")
	}
	if ownerID == "" {
		return nil, AuthorizationError("Unauthorized: User ID missing")
	}

	quiz := &Quiz{
		ID:          r.opts.NewID(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   r.opts.Tick(),
	}

	item, err := MarshalItem(quiz, r.opts.marshalOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quiz: %w", err)
	}

	if err := r.store.PutItem(ctx, item); err != nil {
		return nil, err
	}

	return quiz, nil
}

// GetQuiz returns a quiz and its questions. The quiz lookup and the question
// query are issued concurrently.
func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (*QuizDetail, error) {
	if quizID == "" {
		return nil, ValidationError("Quiz ID is required")
	}

	var (
		quizItem      Item
		questionItems []Item
		missing       bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := r.store.GetItem(gctx, QuizKey(quizID))
		if isNotFound(err) {
			missing = true
			return nil
		}
		quizItem = item
		return err
	})
	g.Go(func() error {
		partition, sortPrefix := QuestionPrefixFor(quizID)
		items, err := r.store.QueryPrefix(gctx, partition, sortPrefix)
		questionItems = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if missing {
		return nil, NotFoundError("Quiz not found")
	}

	detail := &QuizDetail{
		Questions: make([]Question, 0, len(questionItems)),
	}
	if _, err := UnmarshalRecord(quizItem, &detail.Quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz: %w", err)
	}
	if _, err := UnmarshalList(questionItems, &detail.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}

	return detail, nil
}

// getOwnedQuiz loads a quiz and checks that requesterID owns it.
func (r *QuizRepository) getOwnedQuiz(ctx context.Context, quizID, requesterID, denied string) (*Quiz, error) {
	item, err := r.store.GetItem(ctx, QuizKey(quizID))
	if isNotFound(err) {
		return nil, NotFoundError("Quiz not found")
	} else if err != nil {
		return nil, err
	}

	var quiz Quiz
	if _, err := UnmarshalRecord(item, &quiz); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz: %w", err)
	}

	if quiz.OwnerID != requesterID {
		return nil, AuthorizationError(denied)
	}

	return &quiz, nil
}

// DeleteQuiz deletes a quiz and all of its questions and returns the number
// of questions deleted. Only the owner may delete a quiz.
//
// The cascade is not atomic. Every deletion is attempted even if some fail;
// a returned error means the cascade state is unknown and the caller may
// retry, or leave the remains to [QuizRepository.SweepOrphanedQuestions].
func (r *QuizRepository) DeleteQuiz(ctx context.Context, quizID, requesterID string) (int, error) {
	if quizID == "" {
		return 0, ValidationError("Quiz ID is required")
	}
	if requesterID == "" {
		return 0, AuthorizationError("Unauthorized: User ID missing")
	}

	if _, err := r.getOwnedQuiz(ctx, quizID, requesterID, "Unauthorized: You can only delete your own quizzes"); err != nil {
		return 0, err
	}

	partition, sortPrefix := QuestionPrefixFor(quizID)
	questionItems, err := r.store.QueryPrefix(ctx, partition, sortPrefix)
	if err != nil {
		return 0, err
	}

	keys := make([]Key, 0, len(questionItems)+1)
	for _, item := range questionItems {
		key, err := UnmarshalTableKey(item)
		if err != nil {
			return 0, fmt.Errorf("failed to unmarshal question key: %w", err)
		}
		keys = append(keys, key)
	}
	keys = append(keys, QuizKey(quizID))

	if err := r.deleteAll(ctx, keys); err != nil {
		r.opts.Logger.WarnContext(ctx, "quiz cascade delete incomplete",
			"quiz_id", quizID,
			"keys", len(keys),
			"error", err,
		)
		return 0, err
	}

	return len(questionItems), nil
}

// deleteAll issues every deletion concurrently and waits for all of them.
func (r *QuizRepository) deleteAll(ctx context.Context, keys []Key) error {
	var g errgroup.Group
	for _, key := range keys {
		g.Go(func() error {
			return r.store.DeleteItem(ctx, key)
		})
	}
	return g.Wait()
}

// NewQuestion is the input of [QuizRepository.AddQuestion].
type NewQuestion struct {
	QuizID      string
	Question    string
	Answer      string
	Longitude   Coordinate
	Latitude    Coordinate
	RequesterID string
}

// AddQuestion adds a question to a quiz owned by the requester.
//
// Coordinates that are present but not numeric are stored as NaN; they are
// not rejected.
func (r *QuizRepository) AddQuestion(ctx context.Context, in NewQuestion) (*Question, error) {
	if in.QuizID == "" {
		return nil, ValidationError("Quiz ID is required")
	}
	if in.Question == "" {
		return nil, ValidationError("Question is required")
	}
	if in.Answer == "" {
		return nil, ValidationError("Answer is required")
	}
	if !in.Longitude.IsSet() || !in.Latitude.IsSet() {
		return nil, ValidationError("Longitude and latitude are required")
	}
	if in.RequesterID == "" {
		return nil, AuthorizationError("Unauthorized: User ID missing")
	}

	if _, err := r.getOwnedQuiz(ctx, in.QuizID, in.RequesterID, "Unauthorized: You can only add questions to your own quizzes"); err != nil {
		return nil, err
	}

	question := &Question{
		ID:        r.opts.NewID(),
		QuizID:    in.QuizID,
		Question:  in.Question,
		Answer:    in.Answer,
		Longitude: in.Longitude.Float(),
		Latitude:  in.Latitude.Float(),
		CreatedAt: r.opts.Tick(),
	}

	item, err := MarshalItem(question, r.opts.marshalOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal question: %w", err)
	}

	if err := r.store.PutItem(ctx, item); err != nil {
		return nil, err
	}

	return question, nil
}
