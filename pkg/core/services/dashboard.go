package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/volunteerhq/rosterd/pkg/db"
)

// DashboardStats holds the aggregate figures shown on the admin dashboard.
// Every figure is recomputed from the ledger on request; none is read from
// a cached counter.
type DashboardStats struct {
	TotalHours       float64
	ActiveVolunteers int
	OpenShifts       int
	EventsByStatus   map[string]int
}

// GetDashboardStats computes dashboard aggregates by scanning the ledger
func GetDashboardStats(ctx context.Context, stats db.StatsStore, logger *zap.Logger) (*DashboardStats, error) {
	hours, err := stats.SumCompletedHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum hours: %w", err)
	}

	active, err := stats.CountActiveVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active volunteers: %w", err)
	}

	open, err := stats.CountOpenShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open shifts: %w", err)
	}

	byStatus, err := stats.CountEventsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	logger.Debug("Dashboard stats computed",
		zap.Float64("total_hours", hours),
		zap.Int("active_volunteers", active),
		zap.Int("open_shifts", open))

	return &DashboardStats{
		TotalHours:       hours,
		ActiveVolunteers: active,
		OpenShifts:       open,
		EventsByStatus:   byStatus,
	}, nil
}

// FillRate returns filledCount/requiredCount aggregated across shifts,
// zero when no seats are required
func FillRate(shifts []db.Shift) float64 {
	var filled, required int
	for _, s := range shifts {
		filled += s.FilledCount
		required += s.RequiredCount
	}
	if required == 0 {
		return 0
	}
	return float64(filled) / float64(required)
}
