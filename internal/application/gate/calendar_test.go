package gate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func date(day int) time.Time {
	return time.Date(2026, time.March, day, 12, 0, 0, 0, time.UTC)
}

func TestCalendar_IsPeriodOpen(t *testing.T) {
	calendar := NewCalendar(25, zap.NewNop())

	tests := []struct {
		name string
		day  int
		open bool
	}{
		{"first of month", 1, true},
		{"day before close", 24, true},
		{"close day", 25, false},
		{"after close", 28, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, err := calendar.IsPeriodOpen(context.Background(), "company-1", date(tt.day))
			require.NoError(t, err)
			assert.Equal(t, tt.open, open)
		})
	}
}

func TestCalendar_Disabled(t *testing.T) {
	calendar := NewCalendar(0, zap.NewNop())

	open, err := calendar.IsPeriodOpen(context.Background(), "company-1", date(31))
	require.NoError(t, err)
	assert.True(t, open)
}
