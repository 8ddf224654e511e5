// Package poller keeps a dashboard snapshot warm for the selected database.
//
// Refreshes run on a fixed cron interval. Two guards cover the races a naive
// poll loop has: an in-flight flag so overlapping ticks collapse into one
// fetch, and a monotonic sequence number so a slow response can never
// overwrite a newer snapshot.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"querypulse/internal/domain"
)

// API is the slice of the backend the poller needs.
type API interface {
	Metrics(ctx context.Context, databaseID, timeRange string) (domain.MetricsSeries, error)
	QueryPatterns(ctx context.Context, databaseID string, hours int) ([]domain.QueryPattern, error)
	PerformanceTrends(ctx context.Context, databaseID string) ([]domain.PerformanceTrend, error)
}

// Snapshot is one coherent dashboard payload.
type Snapshot struct {
	DatabaseID string
	TimeRange  string
	Metrics    domain.MetricsSeries
	Patterns   []domain.QueryPattern
	Trends     []domain.PerformanceTrend
	FetchedAt  time.Time
}

// patternWindowHours is the lookback the patterns card shows.
const patternWindowHours = 24

// Poller refreshes the snapshot for whichever database is selected.
type Poller struct {
	api      API
	selected func() (string, bool)
	logger   *slog.Logger
	interval time.Duration
	cron     *cron.Cron

	mu         sync.Mutex
	timeRange  string
	snapshot   *Snapshot
	issuedSeq  uint64
	appliedSeq uint64
	inFlight   bool
}

// New creates a poller. selected reports the database to poll; when it
// returns false the tick is skipped.
func New(a API, selected func() (string, bool), interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		api:       a,
		selected:  selected,
		logger:    logger,
		interval:  interval,
		timeRange: "24h",
	}
}

// Start schedules the refresh loop and fires one refresh immediately.
func (p *Poller) Start() error {
	if p.cron != nil {
		return nil
	}
	c := cron.New()
	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := c.AddFunc(spec, func() {
		if err := p.Refresh(context.Background()); err != nil {
			p.logger.Warn("dashboard refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	p.cron = c
	c.Start()
	p.logger.Info("dashboard poller started", "interval", p.interval.String())

	go func() {
		if err := p.Refresh(context.Background()); err != nil {
			p.logger.Warn("initial dashboard refresh failed", "error", err)
		}
	}()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.cron = nil
	p.logger.Info("dashboard poller stopped")
}

// SetTimeRange changes the metrics window for subsequent refreshes.
func (p *Poller) SetTimeRange(timeRange string) {
	p.mu.Lock()
	p.timeRange = timeRange
	p.mu.Unlock()
}

// Snapshot returns the last applied snapshot.
func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return Snapshot{}, false
	}
	return *p.snapshot, true
}

// Refresh fetches a new snapshot for the selected database. Called by the
// cron loop and by the dashboard's manual refresh action.
func (p *Poller) Refresh(ctx context.Context) error {
	databaseID, ok := p.selected()
	if !ok {
		return nil
	}

	p.mu.Lock()
	if p.inFlight {
		// An earlier tick is still fetching; piggyback on it.
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	p.issuedSeq++
	seq := p.issuedSeq
	timeRange := p.timeRange
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	snap := Snapshot{DatabaseID: databaseID, TimeRange: timeRange, FetchedAt: time.Now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		series, err := p.api.Metrics(gctx, databaseID, timeRange)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		snap.Metrics = series
		return nil
	})
	g.Go(func() error {
		patterns, err := p.api.QueryPatterns(gctx, databaseID, patternWindowHours)
		if err != nil {
			return fmt.Errorf("patterns: %w", err)
		}
		snap.Patterns = patterns
		return nil
	})
	g.Go(func() error {
		trends, err := p.api.PerformanceTrends(gctx, databaseID)
		if err != nil {
			return fmt.Errorf("trends: %w", err)
		}
		snap.Trends = trends
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.appliedSeq {
		return nil
	}
	p.appliedSeq = seq
	p.snapshot = &snap
	return nil
}
