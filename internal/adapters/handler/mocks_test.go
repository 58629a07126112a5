package handler_test

import (
	"context"
	"net/http"
	"time"

	"github.com/IANDYI/health-tracker/internal/adapters/middleware"
	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCalculatorService is a mock implementation of CalculatorService
type MockCalculatorService struct {
	mock.Mock
}

func (m *MockCalculatorService) CalculateBMI(ctx context.Context, req ports.BMIRequest) (*ports.BMIResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.BMIResult), args.Error(1)
}

func (m *MockCalculatorService) CalculateCalories(ctx context.Context, req ports.CalorieRequest) (*ports.CalorieResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CalorieResult), args.Error(1)
}

func (m *MockCalculatorService) ValidateFields(ctx context.Context, fields []domain.Field) domain.Result {
	args := m.Called(ctx, fields)
	return args.Get(0).(domain.Result)
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) SaveProfile(ctx context.Context, username string, profile domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, username, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) GetCalorieGoal(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

func (m *MockProfileService) SetCalorieGoal(ctx context.Context, username string, goal int) (int, error) {
	args := m.Called(ctx, username, goal)
	return args.Int(0), args.Error(1)
}

func (m *MockProfileService) Greeting(ctx context.Context, username string, now time.Time) (*domain.Greeting, error) {
	args := m.Called(ctx, username, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Greeting), args.Error(1)
}

// MockTrackerService is a mock implementation of TrackerService
type MockTrackerService struct {
	mock.Mock
}

func (m *MockTrackerService) intake(args mock.Arguments) (*domain.IntakeProgress, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntakeProgress), args.Error(1)
}

func (m *MockTrackerService) water(args mock.Arguments) (*domain.WaterDay, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaterDay), args.Error(1)
}

func (m *MockTrackerService) GetIntakeProgress(ctx context.Context, username string, day time.Time) (*domain.IntakeProgress, error) {
	return m.intake(m.Called(ctx, username, day))
}

func (m *MockTrackerService) LogIntake(ctx context.Context, username string, day time.Time, kcal int) (*domain.IntakeProgress, error) {
	return m.intake(m.Called(ctx, username, day, kcal))
}

func (m *MockTrackerService) ResetIntake(ctx context.Context, username string, day time.Time) (*domain.IntakeProgress, error) {
	return m.intake(m.Called(ctx, username, day))
}

func (m *MockTrackerService) GetWater(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	return m.water(m.Called(ctx, username, day))
}

func (m *MockTrackerService) AddWaterCup(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	return m.water(m.Called(ctx, username, day))
}

func (m *MockTrackerService) RemoveWaterCup(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	return m.water(m.Called(ctx, username, day))
}

func (m *MockTrackerService) ResetWater(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	return m.water(m.Called(ctx, username, day))
}

func (m *MockTrackerService) ListActivities(ctx context.Context, username string) ([]domain.Activity, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func (m *MockTrackerService) AddActivity(ctx context.Context, username string, req ports.AddActivityRequest) (*domain.Activity, error) {
	args := m.Called(ctx, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockTrackerService) DeleteActivity(ctx context.Context, username string, activityID uuid.UUID) error {
	args := m.Called(ctx, username, activityID)
	return args.Error(0)
}

func (m *MockTrackerService) ListSleep(ctx context.Context, username string) ([]domain.SleepEntry, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SleepEntry), args.Error(1)
}

func (m *MockTrackerService) LogSleep(ctx context.Context, username string, hours float64) (*domain.SleepEntry, error) {
	args := m.Called(ctx, username, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SleepEntry), args.Error(1)
}

func (m *MockTrackerService) ClearSleep(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SeedDemoAccount(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthService) Register(ctx context.Context, creds domain.Credentials) (*ports.Session, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (*ports.Session, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockAuthService) IsLoggedIn(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

var (
	_ ports.CalculatorService = (*MockCalculatorService)(nil)
	_ ports.ProfileService    = (*MockProfileService)(nil)
	_ ports.TrackerService    = (*MockTrackerService)(nil)
	_ ports.AuthService       = (*MockAuthService)(nil)
)

// withUser attaches an authenticated username the way the auth middleware does
func withUser(r *http.Request, username string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UsernameKey, username))
}
