package service

import (
	"context"
	"fmt"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
)

// ExerciseRequest is validated locally before the POST; exercises are
// immutable once logged so there is no update path.
type ExerciseRequest struct {
	UserID          int     `json:"userId" validate:"required"`
	ExerciseName    string  `json:"exerciseName" validate:"required"`
	DurationMinutes int     `json:"durationMinutes" validate:"required,gt=0"`
	CaloriesBurned  float64 `json:"caloriesBurned" validate:"required,gt=0"`
	Date            string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func LogExercise(ctx context.Context, c *api.Client, req *ExerciseRequest) (*internal.Exercise, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var exercise internal.Exercise
	if err := c.Post(ctx, "/exercises", req, &exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

func ListExercisesByUser(ctx context.Context, c *api.Client, userID int) ([]internal.Exercise, error) {
	var exercises []internal.Exercise
	if err := c.Get(ctx, fmt.Sprintf("/exercises/user/%d", userID), &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func ListExercisesByUserAndDate(ctx context.Context, c *api.Client, userID int, date string) ([]internal.Exercise, error) {
	var exercises []internal.Exercise
	if err := c.Get(ctx, fmt.Sprintf("/exercises/user/%d/date/%s", userID, date), &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func GetTotalCaloriesBurned(ctx context.Context, c *api.Client, userID int, date string) (float64, error) {
	var out struct {
		TotalCaloriesBurned float64 `json:"totalCaloriesBurned"`
	}
	path := fmt.Sprintf("/exercises/user/%d/date/%s/calories-burned", userID, date)
	if err := c.Get(ctx, path, &out); err != nil {
		return 0, err
	}
	return out.TotalCaloriesBurned, nil
}

func GetDailyExerciseSummary(ctx context.Context, c *api.Client, userID int, date string) (*internal.DailyExerciseSummary, error) {
	var summary internal.DailyExerciseSummary
	path := fmt.Sprintf("/exercises/user/%d/date/%s/summary", userID, date)
	if err := c.Get(ctx, path, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
