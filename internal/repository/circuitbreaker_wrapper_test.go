//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/image-proxy/internal/circuitbreaker"
	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLogsRepository struct {
	mock.Mock
}

func (m *mockLogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockLogsRepository) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *mockLogsRepository) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}

func (m *mockLogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *mockLogsRepository) Summarize(ctx context.Context, since *time.Time) ([]model.LogSummary, error) {
	args := m.Called(ctx, since)
	summaries, _ := args.Get(0).([]model.LogSummary)
	return summaries, args.Error(1)
}

func newWrapped(threshold int) (*LogsRepositoryWithCircuitBreaker, *mockLogsRepository) {
	inner := new(mockLogsRepository)
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: threshold,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
		Name:             "logs-test",
	})
	return NewLogsRepositoryWithCircuitBreaker(inner, cb), inner
}

func TestLogsRepositoryWithCircuitBreaker_PassThrough(t *testing.T) {
	repo, inner := newWrapped(3)
	ctx := context.Background()
	entry := &model.LogEntry{Message: "ok"}
	want := []model.LogEntry{{Message: "ok"}}
	summary := []model.LogSummary{{CacheStatus: "HIT", Requests: 3}}

	inner.On("Create", ctx, entry).Return(nil)
	inner.On("CreateMany", ctx, []*model.LogEntry{entry}).Return(nil)
	inner.On("Query", ctx, model.LogQueryOptions{Level: "info"}).Return(want, nil)
	inner.On("Count", ctx, model.LogQueryOptions{}).Return(int64(7), nil)
	inner.On("Summarize", ctx, (*time.Time)(nil)).Return(summary, nil)

	require.NoError(t, repo.Create(ctx, entry))
	require.NoError(t, repo.CreateMany(ctx, []*model.LogEntry{entry}))

	got, err := repo.Query(ctx, model.LogQueryOptions{Level: "info"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	count, err := repo.Count(ctx, model.LogQueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	sum, err := repo.Summarize(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, summary, sum)

	inner.AssertExpectations(t)
}

func TestLogsRepositoryWithCircuitBreaker_OpenCircuit(t *testing.T) {
	repo, inner := newWrapped(1)
	ctx := context.Background()
	backendErr := errors.New("no reachable servers")

	inner.On("Create", ctx, mock.Anything).Return(backendErr).Once()

	err := repo.Create(ctx, &model.LogEntry{})
	assert.ErrorIs(t, err, backendErr)
	assert.True(t, repo.GetCircuitBreaker().IsOpen())

	assert.NoError(t, repo.Create(ctx, &model.LogEntry{}), "writes are dropped while open")
	assert.NoError(t, repo.CreateMany(ctx, []*model.LogEntry{{}}))

	_, err = repo.Query(ctx, model.LogQueryOptions{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	_, err = repo.Count(ctx, model.LogQueryOptions{})
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	_, err = repo.Summarize(ctx, nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)

	inner.AssertNumberOfCalls(t, "Create", 1)
}
