package services

import (
	"context"
	"fmt"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/google/uuid"
)

// TrackerService implements the intake, water, activity and sleep trackers.
// Each update is a read-modify-write on one key with no transaction around it.
type TrackerService struct {
	store     ports.KeyValueStore
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewTrackerService creates a new tracker service
func NewTrackerService(store ports.KeyValueStore, publisher ports.EventPublisher) *TrackerService {
	return &TrackerService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// Intake

func (s *TrackerService) GetIntakeProgress(ctx context.Context, username string, day time.Time) (*domain.IntakeProgress, error) {
	us := newUserStore(s.store, username)

	intake, err := us.getInt(ctx, domain.IntakeKey(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get intake: %w", err)
	}
	goal, err := us.getInt(ctx, domain.KeyCalorieGoal)
	if err != nil {
		return nil, fmt.Errorf("failed to get calorie goal: %w", err)
	}

	progress := domain.NewIntakeProgress(day, intake, goal)
	return &progress, nil
}

// LogIntake adds kcal to the day's intake and publishes an event when the goal is first reached
func (s *TrackerService) LogIntake(ctx context.Context, username string, day time.Time, kcal int) (*domain.IntakeProgress, error) {
	if err := domain.ValidateIntake(kcal); err != nil {
		return nil, err
	}

	before, err := s.GetIntakeProgress(ctx, username, day)
	if err != nil {
		return nil, err
	}

	us := newUserStore(s.store, username)
	if err := us.setInt(ctx, domain.IntakeKey(day), before.Intake+kcal); err != nil {
		return nil, fmt.Errorf("failed to log intake: %w", err)
	}

	progress := domain.NewIntakeProgress(day, before.Intake+kcal, before.Goal)
	if progress.Goal > 0 && before.Intake < progress.Goal && progress.Intake >= progress.Goal {
		publishAsync(s.publisher, ports.HealthEvent{
			EventType: ports.EventCalorieGoalReached,
			Username:  username,
			Value:     float64(progress.Intake),
			Detail:    progress.Text(),
		})
	}

	return &progress, nil
}

// ResetIntake sets the day's intake back to 0
func (s *TrackerService) ResetIntake(ctx context.Context, username string, day time.Time) (*domain.IntakeProgress, error) {
	if err := newUserStore(s.store, username).setInt(ctx, domain.IntakeKey(day), 0); err != nil {
		return nil, fmt.Errorf("failed to reset intake: %w", err)
	}
	return s.GetIntakeProgress(ctx, username, day)
}

// Water

func (s *TrackerService) GetWater(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	cups, err := newUserStore(s.store, username).getInt(ctx, domain.WaterKey(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get water intake: %w", err)
	}
	water := domain.NewWaterDay(day, cups)
	return &water, nil
}

func (s *TrackerService) setWater(ctx context.Context, username string, day time.Time, cups int) (*domain.WaterDay, error) {
	if err := newUserStore(s.store, username).setInt(ctx, domain.WaterKey(day), cups); err != nil {
		return nil, fmt.Errorf("failed to update water intake: %w", err)
	}
	water := domain.NewWaterDay(day, cups)
	return &water, nil
}

// AddWaterCup adds one cup, capped at the daily goal
func (s *TrackerService) AddWaterCup(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	current, err := s.GetWater(ctx, username, day)
	if err != nil {
		return nil, err
	}

	water, err := s.setWater(ctx, username, day, domain.AddCup(current.Cups))
	if err != nil {
		return nil, err
	}

	if current.Cups < water.Goal && water.Cups >= water.Goal {
		publishAsync(s.publisher, ports.HealthEvent{
			EventType: ports.EventWaterGoalReached,
			Username:  username,
			Value:     float64(water.Cups),
			Detail:    water.Text(),
		})
	}

	return water, nil
}

// RemoveWaterCup removes one cup, never below zero
func (s *TrackerService) RemoveWaterCup(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	current, err := s.GetWater(ctx, username, day)
	if err != nil {
		return nil, err
	}
	return s.setWater(ctx, username, day, domain.RemoveCup(current.Cups))
}

func (s *TrackerService) ResetWater(ctx context.Context, username string, day time.Time) (*domain.WaterDay, error) {
	return s.setWater(ctx, username, day, 0)
}

// Activities

// ListActivities returns the activity log, newest first
func (s *TrackerService) ListActivities(ctx context.Context, username string) ([]domain.Activity, error) {
	activities := []domain.Activity{}
	if err := newUserStore(s.store, username).getJSON(ctx, domain.KeyActivityLog, &activities); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *TrackerService) AddActivity(ctx context.Context, username string, req ports.AddActivityRequest) (*domain.Activity, error) {
	activity, err := domain.NewActivity(req.Name, req.Duration, req.Calories, s.now())
	if err != nil {
		return nil, err
	}

	activities, err := s.ListActivities(ctx, username)
	if err != nil {
		return nil, err
	}

	activities = domain.PrependActivity(activities, *activity)
	if err := newUserStore(s.store, username).setJSON(ctx, domain.KeyActivityLog, activities); err != nil {
		return nil, fmt.Errorf("failed to add activity: %w", err)
	}

	return activity, nil
}

func (s *TrackerService) DeleteActivity(ctx context.Context, username string, activityID uuid.UUID) error {
	activities, err := s.ListActivities(ctx, username)
	if err != nil {
		return err
	}

	remaining, found := domain.RemoveActivity(activities, activityID)
	if !found {
		return fmt.Errorf("activity %s: %w", activityID, ErrNotFound)
	}

	if err := newUserStore(s.store, username).setJSON(ctx, domain.KeyActivityLog, remaining); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// Sleep

// ListSleep returns the sleep history, newest first
func (s *TrackerService) ListSleep(ctx context.Context, username string) ([]domain.SleepEntry, error) {
	history := []domain.SleepEntry{}
	if err := newUserStore(s.store, username).getJSON(ctx, domain.KeySleepHistory, &history); err != nil {
		return nil, fmt.Errorf("failed to list sleep history: %w", err)
	}
	return history, nil
}

// LogSleep records a night's sleep, keeping only the most recent entries
func (s *TrackerService) LogSleep(ctx context.Context, username string, hours float64) (*domain.SleepEntry, error) {
	entry, err := domain.NewSleepEntry(hours, s.now())
	if err != nil {
		return nil, err
	}

	history, err := s.ListSleep(ctx, username)
	if err != nil {
		return nil, err
	}

	history = domain.PrependSleep(history, *entry)
	if err := newUserStore(s.store, username).setJSON(ctx, domain.KeySleepHistory, history); err != nil {
		return nil, fmt.Errorf("failed to log sleep: %w", err)
	}

	return entry, nil
}

func (s *TrackerService) ClearSleep(ctx context.Context, username string) error {
	if err := newUserStore(s.store, username).setJSON(ctx, domain.KeySleepHistory, []domain.SleepEntry{}); err != nil {
		return fmt.Errorf("failed to clear sleep history: %w", err)
	}
	return nil
}

// Ensure TrackerService implements the interface
var _ ports.TrackerService = (*TrackerService)(nil)
