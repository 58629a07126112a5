package domain_test

import (
	"testing"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, time.March, 9, 15, 30, 0, 0, time.UTC)

func TestDayKeys(t *testing.T) {
	assert.Equal(t, "intake_2024-03-09", domain.IntakeKey(day))
	assert.Equal(t, "water_2024-03-09", domain.WaterKey(day))
}

func TestNewIntakeProgress(t *testing.T) {
	p := domain.NewIntakeProgress(day, 1000, 2000)
	assert.Equal(t, 50, p.Percent)
	assert.Equal(t, "1000 / 2000 kcal", p.Text())
	assert.Equal(t, "2024-03-09", p.Date)

	assert.Equal(t, 100, domain.NewIntakeProgress(day, 3500, 2000).Percent)
	assert.Equal(t, 0, domain.NewIntakeProgress(day, 500, 0).Percent)
	assert.Equal(t, 33, domain.NewIntakeProgress(day, 1, 3).Percent)
}

func TestWaterCups(t *testing.T) {
	assert.Equal(t, 1, domain.AddCup(0))
	assert.Equal(t, domain.WaterGoalCups, domain.AddCup(7))
	assert.Equal(t, domain.WaterGoalCups, domain.AddCup(domain.WaterGoalCups))
	assert.Equal(t, 0, domain.RemoveCup(0))
	assert.Equal(t, 2, domain.RemoveCup(3))

	assert.Equal(t, "3 / 8 cups", domain.NewWaterDay(day, 3).Text())
}

func TestNewActivity(t *testing.T) {
	a, err := domain.NewActivity("  Running ", 30, 300, day)
	require.NoError(t, err)
	assert.Equal(t, "Running", a.Name)
	assert.NotEqual(t, uuid.Nil, a.ID)

	a, err = domain.NewActivity("Walk", 10, -5, day)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Calories)

	_, err = domain.NewActivity("  ", 30, 100, day)
	assert.ErrorIs(t, err, domain.ErrInvalidActivity)

	_, err = domain.NewActivity("Swim", 0, 100, day)
	assert.ErrorIs(t, err, domain.ErrInvalidActivity)
}

func TestActivityLog(t *testing.T) {
	first, _ := domain.NewActivity("Walk", 10, 50, day)
	second, _ := domain.NewActivity("Run", 20, 200, day)

	log := domain.PrependActivity(nil, *first)
	log = domain.PrependActivity(log, *second)
	require.Len(t, log, 2)
	assert.Equal(t, "Run", log[0].Name)

	log, found := domain.RemoveActivity(log, second.ID)
	assert.True(t, found)
	require.Len(t, log, 1)
	assert.Equal(t, first.ID, log[0].ID)

	_, found = domain.RemoveActivity(log, uuid.New())
	assert.False(t, found)
}

func TestNewSleepEntry(t *testing.T) {
	for _, hours := range []float64{0, -1, 25, 24.01} {
		_, err := domain.NewSleepEntry(hours, day)
		assert.ErrorIs(t, err, domain.ErrInvalidSleepHours, "hours %v", hours)
	}

	for _, hours := range []float64{0.5, 7.5, 24} {
		e, err := domain.NewSleepEntry(hours, day)
		require.NoError(t, err)
		assert.Equal(t, hours, e.Hours)
	}
}

func TestPrependSleep_KeepsMostRecent(t *testing.T) {
	var history []domain.SleepEntry
	for i := 1; i <= 35; i++ {
		history = domain.PrependSleep(history, domain.SleepEntry{Hours: float64(i % 24), At: day.Add(time.Duration(i) * time.Hour)})
	}

	require.Len(t, history, domain.SleepHistoryLimit)
	assert.Equal(t, day.Add(35*time.Hour), history[0].At)
	assert.Equal(t, day.Add(6*time.Hour), history[len(history)-1].At)
}

func TestGoalAndIntakeValidation(t *testing.T) {
	assert.NoError(t, domain.ValidateCalorieGoal(2000))
	assert.ErrorIs(t, domain.ValidateCalorieGoal(0), domain.ErrInvalidCalorieGoal)
	assert.NoError(t, domain.ValidateIntake(1))
	assert.ErrorIs(t, domain.ValidateIntake(-10), domain.ErrInvalidIntake)
}

func TestValidateProfile(t *testing.T) {
	assert.True(t, domain.ValidateProfile(domain.Profile{Name: "Sam", Email: "sam@example.com"}).Valid())

	result := domain.ValidateProfile(domain.Profile{Name: "S", Email: "nope"})
	assert.Equal(t, "Minimum 2 characters required", result.Message("name"))
	assert.Equal(t, "Please enter a valid email address", result.Message("email"))

	assert.True(t, domain.Profile{}.IsEmpty())
}
