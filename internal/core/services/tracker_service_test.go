package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/IANDYI/health-tracker/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

func TestTrackerService_LogIntake(t *testing.T) {
	store := newMemoryStore()
	publisher := newRecordingPublisher()
	svc := services.NewTrackerService(store, publisher)
	ctx := context.Background()

	_, err := services.NewProfileService(store).SetCalorieGoal(ctx, "sam", 2000)
	require.NoError(t, err)

	progress, err := svc.LogIntake(ctx, "sam", today, 800)
	require.NoError(t, err)
	assert.Equal(t, 800, progress.Intake)
	assert.Equal(t, 40, progress.Percent)
	publisher.expectNoEvent(t)

	progress, err = svc.LogIntake(ctx, "sam", today, 1300)
	require.NoError(t, err)
	assert.Equal(t, 2100, progress.Intake)
	assert.Equal(t, 100, progress.Percent)

	event := publisher.expectEvent(t)
	assert.Equal(t, ports.EventCalorieGoalReached, event.EventType)
	assert.Equal(t, "sam", event.Username)
	assert.Equal(t, 2100.0, event.Value)

	// Already past the goal, so no second event
	_, err = svc.LogIntake(ctx, "sam", today, 100)
	require.NoError(t, err)
	publisher.expectNoEvent(t)
}

func TestTrackerService_LogIntake_Invalid(t *testing.T) {
	mockStore := new(MockStore)
	svc := services.NewTrackerService(mockStore, nil)

	_, err := svc.LogIntake(context.Background(), "sam", today, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidIntake)
	mockStore.AssertNotCalled(t, "Get")
}

func TestTrackerService_IntakeIsPerDay(t *testing.T) {
	svc := services.NewTrackerService(newMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.LogIntake(ctx, "sam", today, 500)
	require.NoError(t, err)

	tomorrow, err := svc.GetIntakeProgress(ctx, "sam", today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, tomorrow.Intake)

	reset, err := svc.ResetIntake(ctx, "sam", today)
	require.NoError(t, err)
	assert.Equal(t, 0, reset.Intake)
}

func TestTrackerService_Water(t *testing.T) {
	publisher := newRecordingPublisher()
	svc := services.NewTrackerService(newMemoryStore(), publisher)
	ctx := context.Background()

	water, err := svc.RemoveWaterCup(ctx, "sam", today)
	require.NoError(t, err)
	assert.Equal(t, 0, water.Cups)

	for i := 0; i < 10; i++ {
		water, err = svc.AddWaterCup(ctx, "sam", today)
		require.NoError(t, err)
	}
	assert.Equal(t, domain.WaterGoalCups, water.Cups)

	event := publisher.expectEvent(t)
	assert.Equal(t, ports.EventWaterGoalReached, event.EventType)
	publisher.expectNoEvent(t)

	water, err = svc.RemoveWaterCup(ctx, "sam", today)
	require.NoError(t, err)
	assert.Equal(t, 7, water.Cups)

	water, err = svc.ResetWater(ctx, "sam", today)
	require.NoError(t, err)
	assert.Equal(t, 0, water.Cups)

	water, err = svc.GetWater(ctx, "sam", today)
	require.NoError(t, err)
	assert.Equal(t, "0 / 8 cups", water.Text())
}

func TestTrackerService_Activities(t *testing.T) {
	svc := services.NewTrackerService(newMemoryStore(), nil)
	ctx := context.Background()

	list, err := svc.ListActivities(ctx, "sam")
	require.NoError(t, err)
	assert.Empty(t, list)

	walk, err := svc.AddActivity(ctx, "sam", ports.AddActivityRequest{Name: "Walk", Duration: 20, Calories: 90})
	require.NoError(t, err)
	run, err := svc.AddActivity(ctx, "sam", ports.AddActivityRequest{Name: "Run", Duration: 30, Calories: 350})
	require.NoError(t, err)

	list, err = svc.ListActivities(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, run.ID, list[0].ID)

	require.NoError(t, svc.DeleteActivity(ctx, "sam", run.ID))

	list, err = svc.ListActivities(ctx, "sam")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, walk.ID, list[0].ID)

	err = svc.DeleteActivity(ctx, "sam", uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestTrackerService_AddActivity_Invalid(t *testing.T) {
	svc := services.NewTrackerService(newMemoryStore(), nil)

	_, err := svc.AddActivity(context.Background(), "sam", ports.AddActivityRequest{Name: "", Duration: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidActivity)
}

func TestTrackerService_Sleep(t *testing.T) {
	svc := services.NewTrackerService(newMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.LogSleep(ctx, "sam", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidSleepHours)

	for i := 0; i < 32; i++ {
		_, err := svc.LogSleep(ctx, "sam", 7.5)
		require.NoError(t, err)
	}

	history, err := svc.ListSleep(ctx, "sam")
	require.NoError(t, err)
	assert.Len(t, history, domain.SleepHistoryLimit)

	require.NoError(t, svc.ClearSleep(ctx, "sam"))

	history, err = svc.ListSleep(ctx, "sam")
	require.NoError(t, err)
	assert.Empty(t, history)
}
