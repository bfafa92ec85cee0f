package service

import (
	"context"
	"fmt"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
)

func ListAlertsByUser(ctx context.Context, c *api.Client, userID int) ([]internal.Alert, error) {
	var alerts []internal.Alert
	if err := c.Get(ctx, fmt.Sprintf("/alerts/user/%d", userID), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func ListUnreadAlertsByUser(ctx context.Context, c *api.Client, userID int) ([]internal.Alert, error) {
	var alerts []internal.Alert
	if err := c.Get(ctx, fmt.Sprintf("/alerts/user/%d/unread", userID), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkAlertRead is the one client-side mutation of alerts. The backend may
// answer with the updated alert or an empty 2xx body.
func MarkAlertRead(ctx context.Context, c *api.Client, alertID int) (*internal.Alert, error) {
	var alert internal.Alert
	if err := c.Put(ctx, fmt.Sprintf("/alerts/%d/read", alertID), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}
