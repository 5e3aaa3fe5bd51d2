package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// ReportSource is the read side of the ledger needed to build a report.
type ReportSource interface {
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	ListCategories(ctx context.Context, userID string) ([]core.Category, error)
}

var _ ReportSource = (ledger.Store)(nil)

// AnalyticsService computes reports and memoizes them per user and calendar
// day. Every consumer of a user's metrics reads the same Report, so a data
// change costs one recomputation.
type AnalyticsService struct {
	source  ReportSource
	reports cache.Cache[core.Report]
	group   singleflight.Group
	now     func() time.Time
	logger  *log.StructuredLogger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAnalyticsService creates the service. A nil cache disables memoization.
func NewAnalyticsService(source ReportSource, reports cache.Cache[core.Report], logger *log.Logger) *AnalyticsService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AnalyticsService{
		source:      source,
		reports:     reports,
		now:         time.Now,
		logger:      log.NewStructuredLogger(logger),
		generations: make(map[string]uint64),
	}
}

// Report returns the user's report as of now.
func (s *AnalyticsService) Report(ctx context.Context, userID string) (core.Report, error) {
	return s.ReportAt(ctx, userID, s.now())
}

// ReportAt returns the user's report as of the given instant. Reports for the
// same user and calendar day are served from cache until the user's data
// changes or the entry expires. Each caller gets its own copy.
func (s *AnalyticsService) ReportAt(ctx context.Context, userID string, now time.Time) (core.Report, error) {
	gen := s.generation(userID)
	key := cacheKey(userID, now, gen)

	if s.reports != nil {
		if r, ok := s.reports.Get(key); ok {
			return r.Clone(), nil
		}
	}

	// A caller giving up must not fail the others sharing this computation
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		r, err := s.compute(shared, userID, now)
		if err != nil {
			return core.Report{}, err
		}
		if s.reports != nil && s.generation(userID) == gen {
			s.reports.Set(key, r)
		}
		return r, nil
	})
	if err != nil {
		return core.Report{}, err
	}
	return v.(core.Report).Clone(), nil
}

func (s *AnalyticsService) compute(ctx context.Context, userID string, now time.Time) (core.Report, error) {
	start := time.Now()

	var (
		txs  []core.Transaction
		cats []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.source.ListTransactions(gctx, userID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cats, err = s.source.ListCategories(gctx, userID)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Report{}, fmt.Errorf("load ledger for %s: %w", userID, err)
	}

	report := analytics.Compute(txs, cats, now)
	s.logger.LogReportComputed(ctx, userID, len(txs), len(cats), time.Since(start).Milliseconds())
	return report, nil
}

// Invalidate drops every cached report of the user. Computations already in
// flight finish but their result is not cached.
func (s *AnalyticsService) Invalidate(userID string) {
	s.mu.Lock()
	s.generations[userID]++
	s.mu.Unlock()

	if s.reports != nil {
		s.reports.DeletePrefix(userPrefix(userID))
	}
}

// HandleChange invalidates the user named by a change notification.
func (s *AnalyticsService) HandleChange(_ context.Context, msg *amqp.ChangeMessage) error {
	s.Invalidate(msg.UserID)
	return nil
}

// CachedReports is the number of memoized reports.
func (s *AnalyticsService) CachedReports() int {
	if s.reports == nil {
		return 0
	}
	return s.reports.Size()
}

func (s *AnalyticsService) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

func userPrefix(userID string) string {
	return strconv.Itoa(len(userID)) + ":" + userID + ":"
}

// cacheKey length-prefixes the user id so no user's prefix matches another's.
func cacheKey(userID string, now time.Time, gen uint64) string {
	return userPrefix(userID) + core.DateOf(now).String() + ":" + strconv.FormatUint(gen, 10)
}
