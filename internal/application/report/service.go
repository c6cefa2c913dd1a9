package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultPageSize = 20

// Service persists finished run results and serves the dashboard's report
// views. The recent-runs cache is best effort: a cache failure never fails
// the save.
type Service struct {
	repo  report.Repository
	cache report.RecentCache
	log   *zap.Logger
}

// NewService creates a report service. cache may be nil when no cache store
// is configured.
func NewService(repo report.Repository, cache report.RecentCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, log: log}
}

// SaveResult stores the outcome of one engine invocation and pushes a
// lightweight entry onto the recent-runs cache.
func (s *Service) SaveResult(ctx context.Context, scenarioID, scenarioName, environment string, result runner.RunResult) (*report.RunReport, error) {
	rep := report.NewRunReport(scenarioID, scenarioName, environment, result)
	if err := s.repo.Save(ctx, rep); err != nil {
		return nil, err
	}
	if s.cache != nil {
		entry := report.RecentRun{
			ReportID:    rep.ID,
			ScenarioID:  rep.ScenarioID,
			Environment: rep.Environment,
			Success:     rep.Success,
			FinishedAt:  rep.CreatedAt,
		}
		if err := s.cache.Push(ctx, entry); err != nil {
			s.log.Warn("Failed to push recent-run entry",
				zap.String("report_id", rep.ID.String()),
				zap.Error(err),
			)
		}
	}
	return rep, nil
}

// Get returns one report by identifier.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*report.RunReport, error) {
	rep, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, shared.ErrNotFound
	}
	return rep, nil
}

// List returns a page of reports matching the filter plus the total count.
func (s *Service) List(ctx context.Context, filter report.Filter) ([]report.RunReport, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	return s.repo.FindAll(ctx, filter)
}

// Delete removes one report.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Recent returns the most recent run outcomes from the cache. Without a
// configured cache it returns an empty list rather than an error.
func (s *Service) Recent(ctx context.Context, limit int) ([]report.RecentRun, error) {
	if s.cache == nil {
		return []report.RecentRun{}, nil
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	return s.cache.List(ctx, limit)
}
