// Package progress computes display statistics from three independent
// record sets: enrollment progress, assessment results, and
// gamification counters. Every view recomputes from a full re-fetch;
// the three fetches are not transactional and may see transient skew.
package progress

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"cloudmentor/backend/apperr"
	"cloudmentor/backend/models"
	"cloudmentor/backend/store"
)

type Aggregator struct {
	progress *store.Collection[models.UserProgress]
	results  *store.Collection[models.AssessmentResult]
	stats    *store.Collection[models.GamificationStats]
	courses  *store.Collection[models.Course]
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{
		progress: store.NewCollection[models.UserProgress](db, "user_progress"),
		results:  store.NewCollection[models.AssessmentResult](db, "assessment_results"),
		stats:    store.NewCollection[models.GamificationStats](db, "gamification_stats"),
		courses:  store.NewCollection[models.Course](db, "courses"),
	}
}

type Overview struct {
	EnrolledCourses  int `json:"enrolled_courses"`
	CompletedLessons int `json:"completed_lessons"`
	AverageScore     int `json:"average_score"`
	PassedCount      int `json:"passed_count"`
	TotalPoints      int `json:"total_points"`
	TotalBadges      int `json:"total_badges"`
	CurrentStreak    int `json:"current_streak"`
	Level            int `json:"level"`
}

func (g *Aggregator) Overview(ctx context.Context, userID string) (Overview, error) {
	var out Overview

	rows, err := g.progress.Query(ctx, store.Filter{"user_id": userID}, nil)
	if err != nil {
		return out, err
	}
	out.EnrolledCourses = len(rows)
	for _, p := range rows {
		out.CompletedLessons += p.LessonsCompleted
	}

	results, err := g.results.Query(ctx, store.Filter{"user_id": userID},
		&store.Order{Field: "completed_at", Descending: true})
	if err != nil {
		return out, err
	}
	if len(results) > 0 {
		sum := 0
		for _, r := range results {
			sum += r.Score
			if r.Passed {
				out.PassedCount++
			}
		}
		out.AverageScore = int(math.Round(float64(sum) / float64(len(results))))
	}

	// Gamification is owned by external award processes; a missing row
	// reads as zero counters.
	stats, err := g.stats.Get(ctx, store.Filter{"user_id": userID})
	if err != nil && !apperr.IsNotFound(err) {
		return out, err
	}
	out.TotalPoints = stats.TotalPoints
	out.TotalBadges = stats.TotalBadges
	out.CurrentStreak = stats.CurrentStreak
	out.Level = stats.Level

	return out, nil
}

type AssessmentSummary struct {
	Attempts    int  `json:"attempts"`
	BestScore   int  `json:"best_score"`
	LastScore   int  `json:"last_score"`
	PassedCount int  `json:"passed_count"`
	IsCompleted bool `json:"is_completed"`
}

func (g *Aggregator) AssessmentSummary(ctx context.Context, userID, assessmentID string) (AssessmentSummary, error) {
	var out AssessmentSummary
	results, err := g.results.Query(ctx,
		store.Filter{"user_id": userID, "assessment_id": assessmentID},
		&store.Order{Field: "completed_at", Descending: true})
	if err != nil {
		return out, err
	}
	out.Attempts = len(results)
	for i, r := range results {
		if i == 0 {
			out.LastScore = r.Score
		}
		if r.Score > out.BestScore {
			out.BestScore = r.Score
		}
		if r.Passed {
			out.PassedCount++
		}
	}
	out.IsCompleted = out.PassedCount > 0
	return out, nil
}

// Enroll creates the user's progress row for a course. Enrolling twice
// is a ConflictError.
func (g *Aggregator) Enroll(ctx context.Context, userID, courseID string) (models.UserProgress, error) {
	course, err := g.courses.Get(ctx, store.Filter{"id": courseID})
	if err != nil {
		return models.UserProgress{}, err
	}
	row := models.UserProgress{
		UserID:         userID,
		CourseID:       courseID,
		TotalLessons:   course.TotalLessons,
		LastAccessedAt: time.Now(),
	}
	if err := g.progress.Create(ctx, &row); err != nil {
		return models.UserProgress{}, err
	}
	return row, nil
}

// CompleteLesson bumps lessons_completed, clamped at total_lessons, and
// recomputes the derived percentage.
func (g *Aggregator) CompleteLesson(ctx context.Context, userID, courseID string) (models.UserProgress, error) {
	filter := store.Filter{"user_id": userID, "course_id": courseID}
	row, err := g.progress.Get(ctx, filter)
	if err != nil {
		return models.UserProgress{}, err
	}

	completed := row.LessonsCompleted + 1
	if row.TotalLessons > 0 && completed > row.TotalLessons {
		completed = row.TotalLessons
	}
	pct := 0
	if row.TotalLessons > 0 {
		pct = int(math.Round(float64(completed) / float64(row.TotalLessons) * 100))
	}

	return g.progress.Update(ctx, filter, map[string]interface{}{
		"lessons_completed":   completed,
		"progress_percentage": pct,
		"last_accessed_at":    time.Now(),
	})
}
