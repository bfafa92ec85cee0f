package service

import (
	"context"
	"fmt"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
)

type MealRequest struct {
	UserID           int     `json:"userId" validate:"required"`
	MealName         string  `json:"mealName" validate:"required"`
	CaloriesConsumed float64 `json:"caloriesConsumed" validate:"required,gt=0"`
	Date             string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func LogMeal(ctx context.Context, c *api.Client, req *MealRequest) (*internal.Meal, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var meal internal.Meal
	if err := c.Post(ctx, "/meals", req, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func ListMealsByUser(ctx context.Context, c *api.Client, userID int) ([]internal.Meal, error) {
	var meals []internal.Meal
	if err := c.Get(ctx, fmt.Sprintf("/meals/user/%d", userID), &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func ListMealsByUserAndDate(ctx context.Context, c *api.Client, userID int, date string) ([]internal.Meal, error) {
	var meals []internal.Meal
	if err := c.Get(ctx, fmt.Sprintf("/meals/user/%d/date/%s", userID, date), &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func GetTotalCaloriesConsumed(ctx context.Context, c *api.Client, userID int, date string) (float64, error) {
	var out struct {
		TotalCaloriesConsumed float64 `json:"totalCaloriesConsumed"`
	}
	path := fmt.Sprintf("/meals/user/%d/date/%s/calories-consumed", userID, date)
	if err := c.Get(ctx, path, &out); err != nil {
		return 0, err
	}
	return out.TotalCaloriesConsumed, nil
}

func GetDailyCalorieIntake(ctx context.Context, c *api.Client, userID int, date string) (*internal.CalorieSummary, error) {
	var summary internal.CalorieSummary
	path := fmt.Sprintf("/meals/user/%d/date/%s/summary", userID, date)
	if err := c.Get(ctx, path, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
