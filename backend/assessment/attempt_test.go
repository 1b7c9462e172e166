package assessment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cloudmentor/backend/apperr"
	"cloudmentor/backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Assessment{},
		&models.QuizQuestion{},
		&models.QuizOption{},
		&models.AssessmentResult{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedAssessment creates an assessment with n multiple-choice questions,
// each with four options of which the first is correct.
func seedAssessment(t *testing.T, db *gorm.DB, n, passingScore int) models.Assessment {
	assess := models.Assessment{
		CourseID:     "22222222-2222-2222-2222-222222222222",
		Title:        "AWS Fundamentals Quiz",
		PassingScore: passingScore,
	}
	if err := db.Create(&assess).Error; err != nil {
		t.Fatalf("seed assessment: %v", err)
	}
	for i := 0; i < n; i++ {
		q := models.QuizQuestion{
			AssessmentID:  assess.ID,
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			QuestionType:  models.QuestionTypeMultipleChoice,
			SequenceOrder: i + 1,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		for j := 0; j < 4; j++ {
			o := models.QuizOption{
				QuestionID:    q.ID,
				OptionText:    fmt.Sprintf("Option %d", j+1),
				IsCorrect:     j == 0,
				SequenceOrder: j + 1,
			}
			if err := db.Create(&o).Error; err != nil {
				t.Fatalf("seed option: %v", err)
			}
		}
	}
	return assess
}

const testUserID = "33333333-3333-3333-3333-333333333333"

func startAttempt(t *testing.T, db *gorm.DB, assessmentID string) (*Service, *Attempt) {
	svc := NewService(db)
	attempt, err := svc.Start(context.Background(), assessmentID, testUserID)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	return svc, attempt
}

// correctOption returns the id of the option flagged correct.
func correctOption(q QuestionView) string {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID
		}
	}
	return ""
}

func TestStartOrdersQuestionsAndOptions(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 3, 70)

	_, attempt := startAttempt(t, db, assess.ID)
	assert.Equal(t, StateInProgress, attempt.State)
	assert.Equal(t, 0, attempt.Index)
	assert.Len(t, attempt.Questions, 3)
	for i, q := range attempt.Questions {
		assert.Equal(t, i+1, q.SequenceOrder)
		assert.Len(t, q.Options, 4)
		assert.Equal(t, 1, q.Options[0].SequenceOrder)
	}
}

func TestStartMissingAssessmentIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.Start(context.Background(), "44444444-4444-4444-4444-444444444444", testUserID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestStartAssessmentWithoutQuestionsIsNotFound(t *testing.T) {
	db := newTestDB(t)
	assess := models.Assessment{CourseID: "c", Title: "Empty", PassingScore: 70}
	assert.NoError(t, db.Create(&assess).Error)

	svc := NewService(db)
	_, err := svc.Start(context.Background(), assess.ID, testUserID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAdvanceRetreatClampAtBoundaries(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 2, 70)
	_, attempt := startAttempt(t, db, assess.ID)

	attempt.Retreat()
	assert.Equal(t, 0, attempt.Index)

	attempt.Advance()
	assert.Equal(t, 1, attempt.Index)

	attempt.Advance()
	assert.Equal(t, 1, attempt.Index)

	attempt.Retreat()
	assert.Equal(t, 0, attempt.Index)
}

func TestSubmitAllCorrectScoresHundred(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 5, 70)
	svc, attempt := startAttempt(t, db, assess.ID)

	for _, q := range attempt.Questions {
		attempt.SelectAnswer(q.ID, correctOption(q))
	}
	assert.True(t, attempt.AllAnswered())

	result, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, StateSubmitted, attempt.State)
}

func TestSubmitThreeOfFourScoresSeventyFive(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 4, 70)
	svc, attempt := startAttempt(t, db, assess.ID)

	for i, q := range attempt.Questions {
		if i < 3 {
			attempt.SelectAnswer(q.ID, correctOption(q))
		} else {
			attempt.SelectAnswer(q.ID, q.Options[1].ID) // wrong
		}
	}

	result, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)
	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed)
}

func TestSubmitExactPassingScoreIsInclusive(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 10, 70)
	svc, attempt := startAttempt(t, db, assess.ID)

	for i, q := range attempt.Questions {
		if i < 7 {
			attempt.SelectAnswer(q.ID, correctOption(q))
		} else {
			attempt.SelectAnswer(q.ID, q.Options[1].ID)
		}
	}

	result, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)
	assert.Equal(t, 70, result.Score)
	assert.True(t, result.Passed)
}

func TestSubmitZeroPassingScoreFallsBackToDefault(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 2, 0)
	svc, attempt := startAttempt(t, db, assess.ID)

	attempt.SelectAnswer(attempt.Questions[0].ID, correctOption(attempt.Questions[0]))
	attempt.SelectAnswer(attempt.Questions[1].ID, attempt.Questions[1].Options[1].ID)

	result, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed) // 50 < default threshold of 70
}

// The machine does not reject an incomplete submission; the caller is
// expected to disable the action. An unanswered question simply scores
// as wrong.
func TestSubmitPartialAnswers(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 4, 70)
	svc, attempt := startAttempt(t, db, assess.ID)

	attempt.SelectAnswer(attempt.Questions[0].ID, correctOption(attempt.Questions[0]))
	assert.False(t, attempt.AllAnswered())

	result, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)
	assert.Equal(t, 25, result.Score)
	assert.False(t, result.Passed)
}

// Free-text answers never match an option id, so short_answer questions
// can never be counted correct by the scoring loop.
func TestSubmitShortAnswerNeverScores(t *testing.T) {
	db := newTestDB(t)
	assess := models.Assessment{CourseID: "c", Title: "Short answers", PassingScore: 70}
	assert.NoError(t, db.Create(&assess).Error)
	q := models.QuizQuestion{
		AssessmentID:  assess.ID,
		QuestionText:  "Name the AWS compute service",
		QuestionType:  models.QuestionTypeShortAnswer,
		SequenceOrder: 1,
	}
	assert.NoError(t, db.Create(&q).Error)

	svc, attempt := startAttempt(t, db, assess.ID)
	attempt.SelectAnswer(q.ID, "EC2")

	result, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
}

func TestSubmitPersistsOneImmutableResult(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 2, 70)
	svc, attempt := startAttempt(t, db, assess.ID)

	for _, q := range attempt.Questions {
		attempt.SelectAnswer(q.ID, correctOption(q))
	}
	_, err := svc.Submit(context.Background(), attempt)
	assert.NoError(t, err)

	var count int64
	db.Model(&models.AssessmentResult{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Submitted is terminal.
	_, err = svc.Submit(context.Background(), attempt)
	assert.True(t, apperr.IsConflict(err))
	db.Model(&models.AssessmentResult{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSelectAnswerOverwrites(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 1, 70)
	_, attempt := startAttempt(t, db, assess.ID)

	q := attempt.Questions[0]
	attempt.SelectAnswer(q.ID, q.Options[1].ID)
	attempt.SelectAnswer(q.ID, q.Options[2].ID)
	assert.Equal(t, q.Options[2].ID, attempt.Answers[q.ID])
	assert.Len(t, attempt.Answers, 1)
}

func TestRegistry(t *testing.T) {
	db := newTestDB(t)
	assess := seedAssessment(t, db, 1, 70)
	_, attempt := startAttempt(t, db, assess.ID)

	registry := NewRegistry()
	registry.Put(attempt)

	got, err := registry.Get(attempt.ID)
	assert.NoError(t, err)
	assert.Equal(t, attempt.ID, got.ID)

	registry.Remove(attempt.ID)
	_, err = registry.Get(attempt.ID)
	assert.True(t, apperr.IsNotFound(err))
}
