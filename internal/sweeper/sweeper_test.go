package sweeper

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Dikshant005/Titan-Strength/internal/logger"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockSubscriptionRepo struct{ mock.Mock }

func (m *MockSubscriptionRepo) Issue(ctx context.Context, userID, planID, durationDays int, issue subscription.IssueContext) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID, planID, durationDays, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) ActiveForUser(ctx context.Context, userID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) ListByUser(ctx context.Context, userID int) ([]subscription.SubscriptionWithPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.SubscriptionWithPlan), args.Error(1)
}

func (m *MockSubscriptionRepo) ListAll(ctx context.Context, emailFilter string) ([]subscription.SubscriptionWithPlan, error) {
	args := m.Called(ctx, emailFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.SubscriptionWithPlan), args.Error(1)
}

func (m *MockSubscriptionRepo) Cancel(ctx context.Context, subscriptionID int) error {
	return m.Called(ctx, subscriptionID).Error(0)
}

func (m *MockSubscriptionRepo) ListExpiredActive(ctx context.Context) ([]subscription.ExpiredPair, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.ExpiredPair), args.Error(1)
}

func (m *MockSubscriptionRepo) ExpirePair(ctx context.Context, pair subscription.ExpiredPair) error {
	return m.Called(ctx, pair).Error(0)
}

type recordingNotifier struct {
	userIDs []int
}

func (r *recordingNotifier) Notify(ctx context.Context, userID int, title, message string) {
	r.userIDs = append(r.userIDs, userID)
}

func TestRunExpiresAllPairs(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	notifier := &recordingNotifier{}
	s := New(repo, WithNotifier(notifier))

	pairs := []subscription.ExpiredPair{
		{SubscriptionID: 1, UserID: 10},
		{SubscriptionID: 2, UserID: 11},
	}
	repo.On("ListExpiredActive", mock.Anything).Return(pairs, nil)
	repo.On("ExpirePair", mock.Anything, pairs[0]).Return(nil)
	repo.On("ExpirePair", mock.Anything, pairs[1]).Return(nil)

	expired, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, []int{10, 11}, notifier.userIDs)
	repo.AssertExpectations(t)
}

func TestRunContinuesPastItemFailure(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	s := New(repo)

	pairs := []subscription.ExpiredPair{
		{SubscriptionID: 1, UserID: 10},
		{SubscriptionID: 2, UserID: 11},
		{SubscriptionID: 3, UserID: 12},
	}
	repo.On("ListExpiredActive", mock.Anything).Return(pairs, nil)
	repo.On("ExpirePair", mock.Anything, pairs[0]).Return(nil)
	repo.On("ExpirePair", mock.Anything, pairs[1]).Return(errors.New("deadlock"))
	repo.On("ExpirePair", mock.Anything, pairs[2]).Return(nil)

	expired, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	repo.AssertExpectations(t)
}

func TestRunAbortsOnScanFailure(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	s := New(repo)

	repo.On("ListExpiredActive", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := s.Run(context.Background())
	assert.Error(t, err)
	repo.AssertNotCalled(t, "ExpirePair")
}

func TestRunWithNothingToExpire(t *testing.T) {
	repo := new(MockSubscriptionRepo)
	s := New(repo)

	repo.On("ListExpiredActive", mock.Anything).Return([]subscription.ExpiredPair{}, nil)

	expired, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}
