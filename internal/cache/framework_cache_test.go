package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func countingLoader(calls *int) SnapshotLoader {
	return func(ctx context.Context, tenantID string, frameworkID uint) (*Snapshot, error) {
		*calls++
		return &Snapshot{
			Framework: &models.Framework{ID: frameworkID, TenantID: tenantID, Name: "Default"},
			Questions: []*models.Question{{ID: 1, FrameworkID: frameworkID, Order: 1}},
		}, nil
	}
}

func TestFrameworkCache_LocalHit(t *testing.T) {
	calls := 0
	c, err := NewFrameworkCache(nil, countingLoader(&calls), FrameworkCacheConfig{}, nil)
	require.NoError(t, err)

	first, err := c.Get(context.Background(), "tenant-a", 7)
	require.NoError(t, err)
	second, err := c.Get(context.Background(), "tenant-a", 7)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(context.Background(), "tenant-b", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "tenants never share entries")
}

func TestFrameworkCache_Expiry(t *testing.T) {
	calls := 0
	c, err := NewFrameworkCache(nil, countingLoader(&calls), FrameworkCacheConfig{TTL: time.Minute}, nil)
	require.NoError(t, err)

	now := time.Now()
	c.now = func() time.Time { return now }
	_, err = c.Get(context.Background(), "tenant-a", 1)
	require.NoError(t, err)

	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = c.Get(context.Background(), "tenant-a", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFrameworkCache_SharedTier(t *testing.T) {
	ctx := context.Background()
	shared := new(MockCacheService)
	key := FrameworkKey("tenant-a", 3)

	shared.On("Get", ctx, key, mock.Anything).Return(ErrCacheMiss).Once()
	shared.On("Set", ctx, key, mock.AnythingOfType("*cache.Snapshot"), defaultFrameworkCacheTTL).Return(nil).Once()
	shared.On("Delete", ctx, key).Return(nil).Once()

	calls := 0
	c, err := NewFrameworkCache(shared, countingLoader(&calls), FrameworkCacheConfig{}, nil)
	require.NoError(t, err)

	snapshot, err := c.Get(ctx, "tenant-a", 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), snapshot.Framework.ID)

	c.Invalidate(ctx, "tenant-a", 3)
	assert.Equal(t, 0, c.Len())
	shared.AssertExpectations(t)
}

func TestFrameworkCache_SharedFailureFallsBackToLoader(t *testing.T) {
	ctx := context.Background()
	shared := new(MockCacheService)
	shared.On("Get", ctx, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	shared.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	calls := 0
	c, err := NewFrameworkCache(shared, countingLoader(&calls), FrameworkCacheConfig{}, nil)
	require.NoError(t, err)

	snapshot, err := c.Get(ctx, "tenant-a", 9)
	require.NoError(t, err)
	assert.NotNil(t, snapshot)
	assert.Equal(t, 1, calls)
}

func TestFrameworkCache_LoaderError(t *testing.T) {
	loadErr := errors.New("not found")
	c, err := NewFrameworkCache(nil, func(context.Context, string, uint) (*Snapshot, error) {
		return nil, loadErr
	}, FrameworkCacheConfig{}, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "tenant-a", 1)
	assert.ErrorIs(t, err, loadErr)
	assert.Equal(t, 0, c.Len())
}

func TestNewFrameworkCache_RequiresLoader(t *testing.T) {
	_, err := NewFrameworkCache(nil, nil, FrameworkCacheConfig{}, nil)
	assert.Error(t, err)
}
