// Package quota tracks daily YouTube Data API quota consumption.
package quota

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/channel-insights/channel-analyzer-go/internal/models"
	"github.com/channel-insights/channel-analyzer-go/pkg/logger"
)

// Ledger persists per-day quota counters.
type Ledger interface {
	IncrementUsage(ctx context.Context, cost int, operation string) error
	TodaysUsage(ctx context.Context) (used int, operations int, err error)
}

// Manager books API costs against a daily limit and reports headroom.
type Manager struct {
	ledger           Ledger
	dailyLimit       int
	thresholdPercent int // Warn once this % of quota is used
}

// NewManager creates a quota manager backed by the given ledger.
func NewManager(ledger Ledger, dailyLimit int, thresholdPercent int) *Manager {
	if dailyLimit <= 0 {
		dailyLimit = 10000 // YouTube API v3 default
	}
	if thresholdPercent <= 0 || thresholdPercent > 100 {
		thresholdPercent = 90
	}

	return &Manager{
		ledger:           ledger,
		dailyLimit:       dailyLimit,
		thresholdPercent: thresholdPercent,
	}
}

// RecordUsage books an API cost for today and logs a warning once the usage
// crosses the configured threshold.
func (m *Manager) RecordUsage(ctx context.Context, cost int, operation string) error {
	if err := m.ledger.IncrementUsage(ctx, cost, operation); err != nil {
		return fmt.Errorf("failed to record quota usage: %w", err)
	}

	used, _, err := m.ledger.TodaysUsage(ctx)
	if err != nil {
		return nil
	}

	percentage := float64(used) / float64(m.dailyLimit) * 100
	if used >= m.thresholdQuota() {
		logger.Log.Warn("API quota threshold reached",
			zap.Int("used", used),
			zap.Int("dailyLimit", m.dailyLimit),
			zap.Float64("percentage", percentage),
		)
		return nil
	}

	logger.Log.Debug("Recorded API quota usage",
		zap.Int("cost", cost),
		zap.String("operation", operation),
		zap.Int("used", used),
		zap.Float64("percentage", percentage),
	)

	return nil
}

// QuotaInfo returns today's usage against the daily limit.
func (m *Manager) QuotaInfo(ctx context.Context) (*models.QuotaInfo, error) {
	used, operations, err := m.ledger.TodaysUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get quota info: %w", err)
	}

	remaining := m.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &models.QuotaInfo{
		QuotaUsed:       used,
		QuotaLimit:      m.dailyLimit,
		QuotaRemaining:  remaining,
		OperationsCount: operations,
	}, nil
}

// IsExhausted reports whether today's usage has reached the threshold.
func (m *Manager) IsExhausted(ctx context.Context) (bool, error) {
	used, _, err := m.ledger.TodaysUsage(ctx)
	if err != nil {
		return false, err
	}

	return used >= m.thresholdQuota(), nil
}

// RemainingQuota returns the headroom left before the threshold.
func (m *Manager) RemainingQuota(ctx context.Context) (int, error) {
	used, _, err := m.ledger.TodaysUsage(ctx)
	if err != nil {
		return 0, err
	}

	remaining := m.thresholdQuota() - used
	if remaining < 0 {
		return 0, nil
	}

	return remaining, nil
}

func (m *Manager) thresholdQuota() int {
	return (m.dailyLimit * m.thresholdPercent) / 100
}
