package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage keys, matching the browser page's local storage layout
const (
	KeyUserName     = "userName"
	KeyUserEmail    = "userEmail"
	KeyCalorieGoal  = "calorieGoal"
	KeyActivityLog  = "activityLog"
	KeySleepHistory = "sleepHistory"
	KeyUsers        = "users"
	KeyIsLoggedIn   = "isLoggedIn"

	intakeKeyPrefix = "intake_"
	waterKeyPrefix  = "water_"
	dateKeyLayout   = "2006-01-02"
)

// IntakeKey returns the storage key for a day's calorie intake
func IntakeKey(day time.Time) string {
	return intakeKeyPrefix + day.UTC().Format(dateKeyLayout)
}

// WaterKey returns the storage key for a day's water cups
func WaterKey(day time.Time) string {
	return waterKeyPrefix + day.UTC().Format(dateKeyLayout)
}

// Profile is the user's display name and contact email
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsEmpty reports whether nothing has been saved yet
func (p Profile) IsEmpty() bool {
	return strings.TrimSpace(p.Name) == "" && strings.TrimSpace(p.Email) == ""
}

// ValidateProfile checks name and email with the profile form rules
func ValidateProfile(p Profile) Result {
	return Validate(
		Field{Name: "name", Value: p.Name, Rules: NameRules()},
		Field{Name: "email", Value: p.Email, Rules: EmailRules()},
	)
}

// IntakeProgress is today's logged intake against the calorie goal
type IntakeProgress struct {
	Date    string `json:"date"`
	Intake  int    `json:"intake"`
	Goal    int    `json:"goal"`
	Percent int    `json:"percent"`
}

// NewIntakeProgress computes progress, capped at 100%. A zero goal gives 0%.
func NewIntakeProgress(day time.Time, intake, goal int) IntakeProgress {
	pct := 0
	if goal > 0 {
		pct = int(math.Round(float64(intake) / float64(goal) * 100))
		if pct > 100 {
			pct = 100
		}
	}
	return IntakeProgress{
		Date:    day.UTC().Format(dateKeyLayout),
		Intake:  intake,
		Goal:    goal,
		Percent: pct,
	}
}

// Text renders progress as "<intake> / <goal> kcal"
func (p IntakeProgress) Text() string {
	return fmt.Sprintf("%d / %d kcal", p.Intake, p.Goal)
}

// WaterGoalCups is the default daily water goal
const WaterGoalCups = 8

// WaterDay is the number of cups drunk on one day
type WaterDay struct {
	Date string `json:"date"`
	Cups int    `json:"cups"`
	Goal int    `json:"goal"`
}

// NewWaterDay builds a water day against the default goal
func NewWaterDay(day time.Time, cups int) WaterDay {
	return WaterDay{
		Date: day.UTC().Format(dateKeyLayout),
		Cups: cups,
		Goal: WaterGoalCups,
	}
}

// AddCup adds one cup, never going above the goal
func AddCup(cups int) int {
	return min(WaterGoalCups, cups+1)
}

// RemoveCup removes one cup, never going below zero
func RemoveCup(cups int) int {
	return max(0, cups-1)
}

// Text renders the day as "<cups> / <goal> cups"
func (w WaterDay) Text() string {
	return fmt.Sprintf("%d / %d cups", w.Cups, w.Goal)
}

// Activity is one logged exercise session
type Activity struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Duration int       `json:"duration"` // minutes
	Calories int       `json:"calories"` // kcal burned
	At       time.Time `json:"at"`
}

// ErrInvalidActivity is returned for a missing name or non-positive duration
var ErrInvalidActivity = errors.New("Please enter valid activity name and duration")

// NewActivity validates and builds an activity. Negative calories are stored as 0.
func NewActivity(name string, duration, calories int, at time.Time) (*Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" || duration <= 0 {
		return nil, ErrInvalidActivity
	}
	if calories < 0 {
		calories = 0
	}
	return &Activity{
		ID:       uuid.New(),
		Name:     name,
		Duration: duration,
		Calories: calories,
		At:       at,
	}, nil
}

// PrependActivity puts a new activity at the front of the log
func PrependActivity(log []Activity, a Activity) []Activity {
	return append([]Activity{a}, log...)
}

// RemoveActivity drops the activity with the given ID. The bool is false when it was not found.
func RemoveActivity(log []Activity, id uuid.UUID) ([]Activity, bool) {
	for i, a := range log {
		if a.ID == id {
			out := make([]Activity, 0, len(log)-1)
			out = append(out, log[:i]...)
			return append(out, log[i+1:]...), true
		}
	}
	return log, false
}

// Sleep history limits
const (
	SleepHistoryLimit = 30
	SleepMaxHours     = 24.0
)

// SleepEntry is one night's logged sleep
type SleepEntry struct {
	Hours float64   `json:"hours"`
	At    time.Time `json:"at"`
}

// ErrInvalidSleepHours is returned for hours outside (0, 24]
var ErrInvalidSleepHours = errors.New("Enter a valid number of hours (0-24)")

// NewSleepEntry validates hours. Zero is rejected along with negatives and anything above 24.
func NewSleepEntry(hours float64, at time.Time) (*SleepEntry, error) {
	if math.IsNaN(hours) || hours <= 0 || hours > SleepMaxHours {
		return nil, ErrInvalidSleepHours
	}
	return &SleepEntry{Hours: hours, At: at}, nil
}

// PrependSleep adds an entry to the front of the history and keeps the most recent 30
func PrependSleep(history []SleepEntry, e SleepEntry) []SleepEntry {
	out := append([]SleepEntry{e}, history...)
	if len(out) > SleepHistoryLimit {
		out = out[:SleepHistoryLimit]
	}
	return out
}

// ErrInvalidCalorieGoal is returned for a goal that is not a positive number
var ErrInvalidCalorieGoal = errors.New("Please enter a valid calorie goal")

// ValidateCalorieGoal requires a positive goal
func ValidateCalorieGoal(goal int) error {
	if goal <= 0 {
		return ErrInvalidCalorieGoal
	}
	return nil
}

// ErrInvalidIntake is returned for a non-positive intake amount
var ErrInvalidIntake = errors.New("Enter a valid calorie amount to log")

// ValidateIntake requires a positive amount
func ValidateIntake(kcal int) error {
	if kcal <= 0 {
		return ErrInvalidIntake
	}
	return nil
}
