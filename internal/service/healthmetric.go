package service

import (
	"context"
	"fmt"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
)

// HealthMetricRequest records a new weight; BMI and its category are derived
// server-side from the user's stored height.
type HealthMetricRequest struct {
	UserID int     `json:"userId" validate:"required"`
	Weight float64 `json:"weight" validate:"required,gt=0"`
}

func RecordHealthMetric(ctx context.Context, c *api.Client, req *HealthMetricRequest) (*internal.HealthMetric, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var metric internal.HealthMetric
	if err := c.Post(ctx, "/health-metrics", req, &metric); err != nil {
		return nil, err
	}
	return &metric, nil
}

func ListHealthMetricsByUser(ctx context.Context, c *api.Client, userID int) ([]internal.HealthMetric, error) {
	var metrics []internal.HealthMetric
	if err := c.Get(ctx, fmt.Sprintf("/health-metrics/user/%d", userID), &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

func GetLatestHealthMetric(ctx context.Context, c *api.Client, userID int) (*internal.HealthMetric, error) {
	var metric internal.HealthMetric
	if err := c.Get(ctx, fmt.Sprintf("/health-metrics/user/%d/latest", userID), &metric); err != nil {
		return nil, err
	}
	return &metric, nil
}

// GetHealthProgress returns the weight/BMI history used by the progress chart.
func GetHealthProgress(ctx context.Context, c *api.Client, userID int) ([]internal.HealthProgressPoint, error) {
	var points []internal.HealthProgressPoint
	if err := c.Get(ctx, fmt.Sprintf("/health-metrics/user/%d/progress", userID), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetCaloriesConsumedBurned returns per-day intake vs. burn totals.
func GetCaloriesConsumedBurned(ctx context.Context, c *api.Client, userID int) ([]internal.CaloriesConsumedBurned, error) {
	var days []internal.CaloriesConsumedBurned
	path := fmt.Sprintf("/health-metrics/user/%d/calories_consumed_burned", userID)
	if err := c.Get(ctx, path, &days); err != nil {
		return nil, err
	}
	return days, nil
}
