package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVisitRepo struct{ mock.Mock }

func (m *MockVisitRepo) FindOpenVisit(ctx context.Context, userID int) (*Visit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockVisitRepo) CheckIn(ctx context.Context, userID int) (*Visit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockVisitRepo) CloseVisit(ctx context.Context, visitID int) (*Visit, error) {
	args := m.Called(ctx, visitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockVisitRepo) History(ctx context.Context, userID, limit int) ([]Visit, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Visit), args.Error(1)
}

func (m *MockVisitRepo) CountVisitsSince(ctx context.Context, userID int, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

type MockLedger struct{ mock.Mock }

func (m *MockLedger) IssueByEmail(ctx context.Context, email string, planID int, method subscription.PaymentMethod) (*subscription.Subscription, error) {
	args := m.Called(ctx, email, planID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockLedger) IssueForUser(ctx context.Context, userID, planID int, issue subscription.IssueContext) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID, planID, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockLedger) GetActive(ctx context.Context, userID int) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockLedger) ListByUser(ctx context.Context, userID int) ([]subscription.SubscriptionWithPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.SubscriptionWithPlan), args.Error(1)
}

func (m *MockLedger) ListAll(ctx context.Context, emailFilter string) ([]subscription.SubscriptionWithPlan, error) {
	args := m.Called(ctx, emailFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscription.SubscriptionWithPlan), args.Error(1)
}

func (m *MockLedger) Cancel(ctx context.Context, subscriptionID int) error {
	return m.Called(ctx, subscriptionID).Error(0)
}

func TestCheckInRequiresMembership(t *testing.T) {
	repo := new(MockVisitRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, ledger)

	ledger.On("GetActive", mock.Anything, 7).Return(nil, subscription.ErrNoActiveSubscription)

	_, _, err := svc.CheckIn(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoMembership)
	repo.AssertNotCalled(t, "CheckIn")
}

func TestCheckInOpensVisit(t *testing.T) {
	repo := new(MockVisitRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, ledger)

	ledger.On("GetActive", mock.Anything, 7).
		Return(&subscription.Subscription{ID: 1, Status: subscription.StatusActive}, nil)
	repo.On("FindOpenVisit", mock.Anything, 7).Return(nil, ErrNoOpenVisit)
	repo.On("CheckIn", mock.Anything, 7).
		Return(&Visit{ID: 3, UserID: 7, CheckedInAt: time.Now()}, nil)

	visit, opened, err := svc.CheckIn(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, opened)
	assert.Equal(t, 3, visit.ID)
	repo.AssertExpectations(t)
}

func TestCheckInIdempotentWhileOpen(t *testing.T) {
	repo := new(MockVisitRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, ledger)

	ledger.On("GetActive", mock.Anything, 7).
		Return(&subscription.Subscription{ID: 1, Status: subscription.StatusActive}, nil)
	open := &Visit{ID: 3, UserID: 7, CheckedInAt: time.Now().Add(-time.Hour)}
	repo.On("FindOpenVisit", mock.Anything, 7).Return(open, nil)

	visit, opened, err := svc.CheckIn(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, opened)
	assert.Equal(t, open, visit)
	repo.AssertNotCalled(t, "CheckIn")
}

func TestCheckOutClosesOpenVisit(t *testing.T) {
	repo := new(MockVisitRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, ledger)

	now := time.Now()
	repo.On("FindOpenVisit", mock.Anything, 7).
		Return(&Visit{ID: 3, UserID: 7, CheckedInAt: now.Add(-time.Hour)}, nil)
	repo.On("CloseVisit", mock.Anything, 3).
		Return(&Visit{ID: 3, UserID: 7, CheckedInAt: now.Add(-time.Hour), CheckedOutAt: &now}, nil)

	visit, closed, err := svc.CheckOut(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.NotNil(t, visit.CheckedOutAt)
}

func TestCheckOutWithoutOpenVisitIsNoOp(t *testing.T) {
	repo := new(MockVisitRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, ledger)

	repo.On("FindOpenVisit", mock.Anything, 7).Return(nil, ErrNoOpenVisit)

	visit, closed, err := svc.CheckOut(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Nil(t, visit)
	repo.AssertNotCalled(t, "CloseVisit")
}

func TestMonthlyVisits(t *testing.T) {
	repo := new(MockVisitRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, ledger)

	now := time.Date(2026, 3, 18, 14, 0, 0, 0, time.UTC)
	repo.On("CountVisitsSince", mock.Anything, 7, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)).
		Return(9, nil)

	summary, err := svc.MonthlyVisits(context.Background(), 7, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03", summary.Month)
	assert.Equal(t, 9, summary.Visits)
}
