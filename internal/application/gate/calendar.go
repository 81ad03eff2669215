// Package gate implements the accounting period gate consulted at
// submission time.
package gate

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Calendar is a monthly accounting calendar: submissions are accepted from
// the first of the month up to (but not including) the close day. From the
// close day onward the period is closed until the next month begins.
// A close day of zero disables the gate entirely.
type Calendar struct {
	closeDay int
	logger   *zap.Logger
}

// NewCalendar creates a period gate closing each month on closeDay
func NewCalendar(closeDay int, logger *zap.Logger) *Calendar {
	return &Calendar{
		closeDay: closeDay,
		logger:   logger,
	}
}

// IsPeriodOpen reports whether the accounting period covering date accepts
// new submissions from the company
func (c *Calendar) IsPeriodOpen(ctx context.Context, companyID string, date time.Time) (bool, error) {
	if c.closeDay <= 0 {
		return true, nil
	}

	open := date.Day() < c.closeDay
	if !open {
		c.logger.Info("Accounting period closed for submission",
			zap.String("company_id", companyID),
			zap.Time("date", date),
			zap.Int("close_day", c.closeDay))
	}
	return open, nil
}
