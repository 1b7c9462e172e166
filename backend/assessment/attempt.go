// Package assessment drives a single assessment attempt from first
// question to scored result.
package assessment

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cloudmentor/backend/apperr"
	"cloudmentor/backend/models"
	"cloudmentor/backend/store"
)

type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
)

// QuestionView is a question with its ordered options, as served to the
// client taking the attempt.
type QuestionView struct {
	models.QuizQuestion
	Options []models.QuizOption `json:"options"`
}

// Attempt holds the transient state of one quiz run: the ordered
// questions, the current index, and the answer map. It is not
// goroutine-safe on its own; the Registry serializes access.
type Attempt struct {
	ID         string                  `json:"id"`
	UserID     string                  `json:"user_id"`
	Assessment models.Assessment       `json:"assessment"`
	Questions  []QuestionView          `json:"questions"`
	State      State                   `json:"state"`
	Index      int                     `json:"index"`
	Answers    map[string]string       `json:"answers"` // questionID -> optionID or free text
	Result     *models.AssessmentResult `json:"result,omitempty"`
}

// SelectAnswer records or overwrites the answer for a question. It does
// not check that the question belongs to this attempt.
func (a *Attempt) SelectAnswer(questionID, value string) {
	if a.State != StateInProgress {
		return
	}
	a.Answers[questionID] = value
}

// Advance moves to the next question, a no-op at the last index.
func (a *Attempt) Advance() {
	if a.State == StateInProgress && a.Index < len(a.Questions)-1 {
		a.Index++
	}
}

// Retreat moves to the previous question, a no-op at index 0.
func (a *Attempt) Retreat() {
	if a.State == StateInProgress && a.Index > 0 {
		a.Index--
	}
}

func (a *Attempt) AllAnswered() bool {
	return len(a.Answers) == len(a.Questions)
}

func (a *Attempt) passingScore() int {
	if a.Assessment.PassingScore <= 0 {
		return models.DefaultPassingScore
	}
	return a.Assessment.PassingScore
}

// Service loads attempts through the store gateway and persists their
// results.
type Service struct {
	assessments *store.Collection[models.Assessment]
	questions   *store.Collection[models.QuizQuestion]
	options     *store.Collection[models.QuizOption]
	results     *store.Collection[models.AssessmentResult]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		assessments: store.NewCollection[models.Assessment](db, "assessments"),
		questions:   store.NewCollection[models.QuizQuestion](db, "quiz_questions"),
		options:     store.NewCollection[models.QuizOption](db, "quiz_options"),
		results:     store.NewCollection[models.AssessmentResult](db, "assessment_results"),
	}
}

// Start fetches the assessment and its ordered questions and options.
// An absent assessment or an assessment without questions is a
// NotFoundError and the caller renders an empty state.
func (s *Service) Start(ctx context.Context, assessmentID, userID string) (*Attempt, error) {
	assess, err := s.assessments.Get(ctx, store.Filter{"id": assessmentID})
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.Query(ctx,
		store.Filter{"assessment_id": assessmentID},
		&store.Order{Field: "sequence_order"})
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, &apperr.NotFoundError{Resource: "quiz_questions"}
	}

	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		opts, err := s.options.Query(ctx,
			store.Filter{"question_id": q.ID},
			&store.Order{Field: "sequence_order"})
		if err != nil {
			return nil, err
		}
		views = append(views, QuestionView{QuizQuestion: q, Options: opts})
	}

	return &Attempt{
		ID:         uuid.NewString(),
		UserID:     userID,
		Assessment: assess,
		Questions:  views,
		State:      StateInProgress,
		Answers:    map[string]string{},
	}, nil
}

// Submit scores the attempt and persists one immutable result row. The
// machine does not require all questions answered; the caller disables
// submission in the UI instead. A question counts as correct only when
// the selected value is the id of an option flagged correct, so
// short_answer and code responses never score.
func (s *Service) Submit(ctx context.Context, a *Attempt) (models.AssessmentResult, error) {
	if a.State == StateSubmitted {
		return models.AssessmentResult{}, &apperr.ConflictError{Resource: "attempt", Reason: "already submitted"}
	}

	correct := 0
	for _, q := range a.Questions {
		selected, ok := a.Answers[q.ID]
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			if opt.ID == selected && opt.IsCorrect {
				correct++
				break
			}
		}
	}

	score := int(math.Round(float64(correct) / float64(len(a.Questions)) * 100))
	result := models.AssessmentResult{
		UserID:       a.UserID,
		AssessmentID: a.Assessment.ID,
		Score:        score,
		TotalPoints:  100,
		Passed:       score >= a.passingScore(),
	}
	if err := s.results.Create(ctx, &result); err != nil {
		return models.AssessmentResult{}, err
	}

	a.State = StateSubmitted
	a.Result = &result
	return result, nil
}
