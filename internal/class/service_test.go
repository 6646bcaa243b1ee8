package class

import (
	"context"
	"testing"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/plan"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"
	"github.com/Dikshant005/Titan-Strength/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClassRepo struct{ mock.Mock }

func (m *MockClassRepo) CreateSession(ctx context.Context, req CreateSessionRequest, capacity int) (*Session, error) {
	args := m.Called(ctx, req, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClassRepo) FindSessionByID(ctx context.Context, id int) (*Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClassRepo) ListUpcoming(ctx context.Context) ([]SessionWithAvailability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SessionWithAvailability), args.Error(1)
}

func (m *MockClassRepo) UpdateSession(ctx context.Context, id int, req UpdateSessionRequest) (*Session, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockClassRepo) CancelSession(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockClassRepo) Book(ctx context.Context, sessionID, userID int) (*Attendance, bool, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*Attendance), args.Bool(1), args.Error(2)
}

func (m *MockClassRepo) CancelBooking(ctx context.Context, sessionID, userID int) (bool, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassRepo) MarkAttendance(ctx context.Context, sessionID, userID int, status AttendanceStatus, markedBy int) (*Attendance, error) {
	args := m.Called(ctx, sessionID, userID, status, markedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Attendance), args.Error(1)
}

func (m *MockClassRepo) Roster(ctx context.Context, sessionID int) ([]AttendanceWithUser, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AttendanceWithUser), args.Error(1)
}

func (m *MockClassRepo) ListBookingsByUser(ctx context.Context, userID int) ([]BookingWithSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithSession), args.Error(1)
}

func (m *MockClassRepo) CountBookingsInWeek(ctx context.Context, userID int, weekStart time.Time) (int, error) {
	args := m.Called(ctx, userID, weekStart)
	return args.Int(0), args.Error(1)
}

type MockPlanRepo struct{ mock.Mock }

func (m *MockPlanRepo) Create(ctx context.Context, req plan.CreatePlanRequest) (*plan.Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) FindByID(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) List(ctx context.Context, activeOnly bool) ([]plan.Plan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) Update(ctx context.Context, id int, req plan.UpdatePlanRequest) (*plan.Plan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) Deactivate(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
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

func intPtr(i int) *int { return &i }

func newTestService(repo *MockClassRepo, planRepo *MockPlanRepo, userRepo *MockUserRepo, ledger *MockLedger, now time.Time) Service {
	svc := NewService(repo, planRepo, userRepo, ledger).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBookRequiresActiveMembership(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, planRepo, userRepo, ledger, now)

	repo.On("FindSessionByID", mock.Anything, 5).
		Return(&Session{ID: 5, Status: SessionScheduled, StartsAt: now.Add(time.Hour), Capacity: 20}, nil)
	ledger.On("GetActive", mock.Anything, 7).Return(nil, subscription.ErrNoActiveSubscription)

	_, _, err := svc.Book(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrNoMembership)
	repo.AssertNotCalled(t, "Book")
}

func TestBookRejectsPlanWithoutClassAccess(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, planRepo, userRepo, ledger, now)

	repo.On("FindSessionByID", mock.Anything, 5).
		Return(&Session{ID: 5, Status: SessionScheduled, StartsAt: now.Add(time.Hour), Capacity: 20}, nil)
	ledger.On("GetActive", mock.Anything, 7).
		Return(&subscription.Subscription{ID: 1, UserID: 7, PlanID: 3, Status: subscription.StatusActive}, nil)
	planRepo.On("FindByID", mock.Anything, 3).
		Return(&plan.Plan{ID: 3, CanBookClasses: false, Active: true}, nil)

	_, _, err := svc.Book(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrPlanForbidsBooking)
	repo.AssertNotCalled(t, "Book")
}

func TestBookEnforcesWeeklyLimit(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, planRepo, userRepo, ledger, now)

	startsAt := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	repo.On("FindSessionByID", mock.Anything, 5).
		Return(&Session{ID: 5, Status: SessionScheduled, StartsAt: startsAt, Capacity: 20}, nil)
	ledger.On("GetActive", mock.Anything, 7).
		Return(&subscription.Subscription{ID: 1, UserID: 7, PlanID: 3, Status: subscription.StatusActive}, nil)
	planRepo.On("FindByID", mock.Anything, 3).
		Return(&plan.Plan{ID: 3, CanBookClasses: true, MaxClassesPerWeek: 3, Active: true}, nil)
	repo.On("CountBookingsInWeek", mock.Anything, 7, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)).
		Return(3, nil)

	_, _, err := svc.Book(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrWeeklyLimitReached)
	repo.AssertNotCalled(t, "Book")
}

func TestBookHappyPath(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, planRepo, userRepo, ledger, now)

	startsAt := now.Add(24 * time.Hour)
	repo.On("FindSessionByID", mock.Anything, 5).
		Return(&Session{ID: 5, Status: SessionScheduled, StartsAt: startsAt, Capacity: 20}, nil)
	ledger.On("GetActive", mock.Anything, 7).
		Return(&subscription.Subscription{ID: 1, UserID: 7, PlanID: 3, Status: subscription.StatusActive}, nil)
	planRepo.On("FindByID", mock.Anything, 3).
		Return(&plan.Plan{ID: 3, CanBookClasses: true, MaxClassesPerWeek: 3, Active: true}, nil)
	repo.On("CountBookingsInWeek", mock.Anything, 7, mock.Anything).Return(1, nil)
	repo.On("Book", mock.Anything, 5, 7).
		Return(&Attendance{ID: 1, ClassSessionID: 5, UserID: 7, Status: AttendanceBooked}, true, nil)

	attendance, created, err := svc.Book(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, AttendanceBooked, attendance.Status)
	repo.AssertExpectations(t)
}

func TestBookRejectsStartedSession(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newTestService(repo, planRepo, userRepo, ledger, now)

	repo.On("FindSessionByID", mock.Anything, 5).
		Return(&Session{ID: 5, Status: SessionScheduled, StartsAt: now.Add(-time.Minute), Capacity: 20}, nil)

	_, _, err := svc.Book(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrSessionStarted)
	ledger.AssertNotCalled(t, "GetActive")
}

func TestCreateSessionRejectsNonTrainer(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, planRepo, userRepo, ledger)

	userRepo.On("FindByID", mock.Anything, 9).Return(&user.User{ID: 9, Role: "member"}, nil)

	_, err := svc.CreateSession(context.Background(), CreateSessionRequest{
		Title: "Spin", TrainerID: intPtr(9),
		StartsAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotTrainer)
	repo.AssertNotCalled(t, "CreateSession")
}

func TestCreateSessionWithoutTrainer(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, planRepo, userRepo, ledger)

	req := CreateSessionRequest{
		Title: "Open Floor", Capacity: 30,
		StartsAt: time.Now().Add(time.Hour),
	}
	repo.On("CreateSession", mock.Anything, req, 30).
		Return(&Session{ID: 1, Capacity: 30}, nil)

	_, err := svc.CreateSession(context.Background(), req)
	require.NoError(t, err)
	userRepo.AssertNotCalled(t, "FindByID")
	repo.AssertExpectations(t)
}

func TestCreateSessionDefaultsCapacity(t *testing.T) {
	repo := new(MockClassRepo)
	planRepo := new(MockPlanRepo)
	userRepo := new(MockUserRepo)
	ledger := new(MockLedger)
	svc := NewService(repo, planRepo, userRepo, ledger)

	userRepo.On("FindByID", mock.Anything, 2).Return(&user.User{ID: 2, Role: "trainer"}, nil)
	req := CreateSessionRequest{
		Title: "Spin", TrainerID: intPtr(2),
		StartsAt: time.Now().Add(time.Hour),
	}
	repo.On("CreateSession", mock.Anything, req, DefaultCapacity).
		Return(&Session{ID: 1, Capacity: DefaultCapacity}, nil)

	session, err := svc.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DefaultCapacity, session.Capacity)
	repo.AssertExpectations(t)
}

func TestWeekStart(t *testing.T) {
	// A Wednesday maps back to that week's Monday.
	wed := time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), weekStart(wed))

	// Sunday belongs to the week that started the previous Monday.
	sun := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), weekStart(sun))

	// Monday midnight is its own week start.
	mon := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, weekStart(mon))
}
