package service

import (
	"context"
	"fmt"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
)

func ListUsers(ctx context.Context, c *api.Client) ([]internal.User, error) {
	var users []internal.User
	if err := c.Get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func GetUser(ctx context.Context, c *api.Client, userID int) (*internal.User, error) {
	var user internal.User
	if err := c.Get(ctx, fmt.Sprintf("/users/%d", userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUser(ctx context.Context, c *api.Client, userID int, details *internal.User) (*internal.User, error) {
	var user internal.User
	if err := c.Put(ctx, fmt.Sprintf("/users/%d", userID), details, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserProfile fetches the aggregated profile view the session manager
// loads after login.
func GetUserProfile(ctx context.Context, c *api.Client, userID int) (*internal.UserProfile, error) {
	var profile internal.UserProfile
	if err := c.Get(ctx, fmt.Sprintf("/users/%d/profile", userID), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CalculateBMI asks the backend to derive BMI from the user's stored height
// and latest weight.
func CalculateBMI(ctx context.Context, c *api.Client, userID int) (*internal.BMIResult, error) {
	var result internal.BMIResult
	if err := c.Get(ctx, fmt.Sprintf("/users/%d/bmi", userID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func GetCalorieSummary(ctx context.Context, c *api.Client, userID int) (*internal.CalorieSummary, error) {
	var summary internal.CalorieSummary
	if err := c.Get(ctx, fmt.Sprintf("/users/%d/calorie-summary", userID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
