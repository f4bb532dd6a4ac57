package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"
	"flightassist-service/pkg/logger"
	"flightassist-service/pkg/metrics"
)

// OracleReconciler queries every configured oracle concurrently and merges the answers.
// oracles[0] is the primary and wins ties.
type OracleReconciler struct {
	oracles []repository.ExtractionOracle
	timeout time.Duration
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewOracleReconciler creates a new reconciler. m may be nil.
func NewOracleReconciler(oracles []repository.ExtractionOracle, timeout time.Duration, m *metrics.Metrics, logger logger.Logger) *OracleReconciler {
	return &OracleReconciler{
		oracles: oracles,
		timeout: timeout,
		metrics: m,
		logger:  logger,
	}
}

type oracleAnswer[T any] struct {
	backend string
	value   *T
	err     error
}

// fanOut runs call against every oracle and returns the answers in oracle order
func fanOut[T any](ctx context.Context, r *OracleReconciler, call func(context.Context, repository.ExtractionOracle) (*T, error)) []oracleAnswer[T] {
	answers := make([]oracleAnswer[T], len(r.oracles))
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	for i, oracle := range r.oracles {
		wg.Add(1)
		go func(i int, oracle repository.ExtractionOracle) {
			defer wg.Done()
			v, err := call(ctx, oracle)
			answers[i] = oracleAnswer[T]{backend: oracle.Name(), value: v, err: err}
		}(i, oracle)
	}
	wg.Wait()

	for _, a := range answers {
		outcome := "success"
		if a.err != nil {
			outcome = "failure"
			r.logger.Warn("Oracle call failed", "backend", a.backend, "error", a.err)
		}
		if r.metrics != nil {
			r.metrics.OracleCalls.WithLabelValues(a.backend, outcome).Inc()
		}
	}
	return answers
}

// pick returns the successful answer with strictly the most specific airlines, first one on ties
func pick[T any](answers []oracleAnswer[T], airlines func(*T) int) (*T, string, error) {
	var best *T
	var backend string
	bestCount := -1
	for _, a := range answers {
		if a.err != nil || a.value == nil {
			continue
		}
		if n := airlines(a.value); n > bestCount {
			best, backend, bestCount = a.value, a.backend, n
		}
	}
	if best == nil {
		return nil, "", fmt.Errorf("all %d oracles failed: %w", len(answers), entity.ErrExtractionProvider)
	}
	return best, backend, nil
}

// ExtractParameters runs the full extraction pass
func (r *OracleReconciler) ExtractParameters(ctx context.Context, query string, reference time.Time) (*entity.OracleResult, error) {
	if len(r.oracles) == 0 {
		return nil, fmt.Errorf("no oracle configured: %w", entity.ErrExtractionProvider)
	}
	answers := fanOut(ctx, r, func(ctx context.Context, o repository.ExtractionOracle) (*entity.OracleResult, error) {
		return o.ExtractParameters(ctx, query, reference)
	})
	best, backend, err := pick(answers, func(res *entity.OracleResult) int {
		if res.Filters == nil {
			return 0
		}
		return len(res.Filters.SpecificAirlines)
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Reconciled oracle parameters", "backend", backend, "origin", best.Origin, "destination", best.Destination)
	return best, nil
}

// ExtractFilters runs the filters-only pass
func (r *OracleReconciler) ExtractFilters(ctx context.Context, query string) (*entity.FilterResult, error) {
	if len(r.oracles) == 0 {
		return nil, fmt.Errorf("no oracle configured: %w", entity.ErrExtractionProvider)
	}
	answers := fanOut(ctx, r, func(ctx context.Context, o repository.ExtractionOracle) (*entity.FilterResult, error) {
		return o.ExtractFilters(ctx, query)
	})
	best, backend, err := pick(answers, func(res *entity.FilterResult) int {
		return len(res.Filters.SpecificAirlines)
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Reconciled oracle filters", "backend", backend)
	return best, nil
}
