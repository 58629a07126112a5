package ports

import (
	"context"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/google/uuid"
)

// CalculatorService defines the BMI and calorie calculations behind the calculator forms
type CalculatorService interface {
	// CalculateBMI validates the raw form values, converts units and classifies the result
	CalculateBMI(ctx context.Context, req BMIRequest) (*BMIResult, error)

	// CalculateCalories validates the raw form values and estimates BMR and daily calorie needs
	CalculateCalories(ctx context.Context, req CalorieRequest) (*CalorieResult, error)

	// ValidateFields runs caller-supplied rule lists and returns the per-field messages
	ValidateFields(ctx context.Context, fields []domain.Field) domain.Result
}

// BMIRequest carries the BMI form values as entered
type BMIRequest struct {
	Height     string `json:"height"`
	HeightUnit string `json:"height_unit"` // cm or inches
	Weight     string `json:"weight"`
	WeightUnit string `json:"weight_unit"` // kg or lbs
}

// BMIResult is a computed BMI with its classification
type BMIResult struct {
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	BMI      float64 `json:"bmi"`
	Rounded  string  `json:"bmi_display"` // one decimal place
	domain.BMICategory
}

// CalorieRequest carries the calorie form values as entered
type CalorieRequest struct {
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	Weight        string `json:"weight"`
	WeightUnit    string `json:"weight_unit,omitempty"` // defaults to kg
	Height        string `json:"height"`
	HeightUnit    string `json:"height_unit,omitempty"` // defaults to cm
	ActivityLevel string `json:"activity_level"`
}

// CalorieResult is the estimated BMR and daily calorie need
type CalorieResult struct {
	BMR                 float64 `json:"bmr"`
	DailyCalories       float64 `json:"daily_calories"`
	RoundedCalories     int     `json:"daily_calories_rounded"`
	ActivityLevel       string  `json:"activity_level"`
	ActivityDescription string  `json:"activity_description"`
	Multiplier          float64 `json:"multiplier"`
}

// ProfileService defines profile and calorie goal operations for a user
type ProfileService interface {
	// GetProfile returns the saved profile (empty fields when nothing was saved)
	GetProfile(ctx context.Context, username string) (*domain.Profile, error)

	// SaveProfile validates and stores the profile
	SaveProfile(ctx context.Context, username string, profile domain.Profile) (*domain.Profile, error)

	// GetCalorieGoal returns the saved goal, 0 when none was set
	GetCalorieGoal(ctx context.Context, username string) (int, error)

	// SetCalorieGoal validates and stores a positive goal
	SetCalorieGoal(ctx context.Context, username string, goal int) (int, error)

	// Greeting returns the time-of-day greeting for the user
	Greeting(ctx context.Context, username string, now time.Time) (*domain.Greeting, error)
}

// TrackerService defines the daily trackers: intake, water, activities and sleep
type TrackerService interface {
	GetIntakeProgress(ctx context.Context, username string, day time.Time) (*domain.IntakeProgress, error)
	LogIntake(ctx context.Context, username string, day time.Time, kcal int) (*domain.IntakeProgress, error)
	ResetIntake(ctx context.Context, username string, day time.Time) (*domain.IntakeProgress, error)

	GetWater(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error)
	AddWaterCup(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error)
	RemoveWaterCup(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error)
	ResetWater(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error)

	ListActivities(ctx context.Context, username string) ([]domain.Activity, error)
	AddActivity(ctx context.Context, username string, req AddActivityRequest) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, username string, activityID uuid.UUID) error

	ListSleep(ctx context.Context, username string) ([]domain.SleepEntry, error)
	LogSleep(ctx context.Context, username string, hours float64) (*domain.SleepEntry, error)
	ClearSleep(ctx context.Context, username string) error
}

// AddActivityRequest carries the activity form values
type AddActivityRequest struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Calories int    `json:"calories"`
}

// AuthService defines login, registration and session operations
type AuthService interface {
	// SeedDemoAccount creates the demo user when it does not exist yet
	SeedDemoAccount(ctx context.Context) error

	// Register creates a user and starts a session
	Register(ctx context.Context, creds domain.Credentials) (*Session, error)

	// Login checks credentials and starts a session
	Login(ctx context.Context, creds domain.Credentials) (*Session, error)

	// Logout ends the user's session
	Logout(ctx context.Context, username string) error

	// IsLoggedIn reports whether the user's session flag is set
	IsLoggedIn(ctx context.Context, username string) (bool, error)
}

// Session is an issued login token
type Session struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
