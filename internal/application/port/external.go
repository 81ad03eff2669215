package port

import (
	"context"
	"time"
)

// PeriodGate is the external accounting-period collaborator consulted at
// submit time. The engine only asks whether the period is open; period
// scheduling itself lives outside the engine.
type PeriodGate interface {
	IsPeriodOpen(ctx context.Context, companyID string, date time.Time) (bool, error)
}
