package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"saju/internal/domain/chart"
	"saju/pkg/errors"
)

const reportKeyPrefix = "saju:report:"

// ReportCache stores computed reports as JSON under their deterministic ID
type ReportCache struct {
	client *Client
	ttl    time.Duration
}

var _ chart.ReportCache = (*ReportCache)(nil)

// NewReportCache creates a report cache; ttl 0 keeps entries forever
func NewReportCache(client *Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Key returns the redis key of a report
func Key(id uuid.UUID) string {
	return reportKeyPrefix + id.String()
}

// Get loads a report, returning errors.ErrCacheMiss when absent
func (c *ReportCache) Get(ctx context.Context, id uuid.UUID) (*chart.Report, error) {
	var report chart.Report
	if err := c.client.Get(ctx, Key(id), &report); err != nil {
		if errors.Is(err, errors.ErrCacheMiss) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to read report %s", id)
	}
	return &report, nil
}

// Set stores a report under its ID
func (c *ReportCache) Set(ctx context.Context, report *chart.Report) error {
	if report == nil || report.ID == uuid.Nil {
		return errors.NewValidationError("report", "must carry an id", report)
	}
	if err := c.client.Set(ctx, Key(report.ID), report, c.ttl); err != nil {
		return errors.Wrapf(err, "failed to store report %s", report.ID)
	}
	return nil
}

// Invalidate drops a cached report
func (c *ReportCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Delete(ctx, Key(id)); err != nil {
		return errors.Wrapf(err, "failed to invalidate report %s", id)
	}
	return nil
}
