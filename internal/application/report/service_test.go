package report

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ogw/sanity-backend/internal/domain/report"
	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(ctx context.Context, rep *report.RunReport) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.RunReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.RunReport), args.Error(1)
}

func (m *mockRepository) FindAll(ctx context.Context, filter report.Filter) ([]report.RunReport, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.RunReport), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Push(ctx context.Context, entry report.RecentRun) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockCache) List(ctx context.Context, limit int) ([]report.RecentRun, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]report.RecentRun), args.Error(1)
}

func sampleResult() runner.RunResult {
	return runner.RunResult{
		Success:       true,
		OrderID:       "123456789",
		CorrelationID: "OGW-42",
		Steps: []runner.StepResult{
			{Name: "SubmitOrder (GenerateContract)", Status: runner.StepPass, Message: "OGWOrderID: OGW-42"},
		},
	}
}

func TestSaveResultPersistsAndCaches(t *testing.T) {
	repo := new(mockRepository)
	cache := new(mockCache)
	svc := NewService(repo, cache, nil)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*report.RunReport")).Return(nil)
	cache.On("Push", mock.Anything, mock.MatchedBy(func(e report.RecentRun) bool {
		return e.ScenarioID == "cable-submit-order" && e.Success
	})).Return(nil)

	rep, err := svc.SaveResult(context.Background(), "cable-submit-order", "Cable Submit Order", "staging", sampleResult())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rep.ID)
	assert.Equal(t, "OGW-42", rep.CorrelationID)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSaveResultCacheFailureIsBestEffort(t *testing.T) {
	repo := new(mockRepository)
	cache := new(mockCache)
	svc := NewService(repo, cache, nil)

	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	cache.On("Push", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	rep, err := svc.SaveResult(context.Background(), "get-order", "Get Order", "staging", sampleResult())

	require.NoError(t, err, "cache failures must not fail the save")
	assert.NotNil(t, rep)
}

func TestSaveResultRepositoryError(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil, nil)

	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db unavailable"))

	rep, err := svc.SaveResult(context.Background(), "get-order", "Get Order", "staging", sampleResult())

	require.Error(t, err)
	assert.Nil(t, rep)
}

func TestGetNotFound(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil, nil)
	id := uuid.New()

	repo.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListDefaultsPagination(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil, nil)

	repo.On("FindAll", mock.Anything, report.Filter{Page: 1, PageSize: defaultPageSize}).
		Return([]report.RunReport{}, int64(0), nil)

	_, _, err := svc.List(context.Background(), report.Filter{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecentWithoutCache(t *testing.T) {
	svc := NewService(new(mockRepository), nil, nil)

	entries, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecentUsesCache(t *testing.T) {
	cache := new(mockCache)
	svc := NewService(new(mockRepository), cache, nil)

	want := []report.RecentRun{{ScenarioID: "legacy-search", Success: false}}
	cache.On("List", mock.Anything, 5).Return(want, nil)

	entries, err := svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, want, entries)
}
