package services

import (
	"context"
	"fmt"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
)

// ProfileService implements profile, calorie goal and greeting operations
type ProfileService struct {
	store ports.KeyValueStore
}

// NewProfileService creates a new profile service
func NewProfileService(store ports.KeyValueStore) *ProfileService {
	return &ProfileService{
		store: store,
	}
}

// GetProfile returns the saved name and email
func (s *ProfileService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	us := newUserStore(s.store, username)

	name, err := us.getString(ctx, domain.KeyUserName)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	email, err := us.getString(ctx, domain.KeyUserEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &domain.Profile{Name: name, Email: email}, nil
}

// SaveProfile validates the profile form and stores both fields
func (s *ProfileService) SaveProfile(ctx context.Context, username string, profile domain.Profile) (*domain.Profile, error) {
	if err := domain.ValidateProfile(profile).Err(); err != nil {
		return nil, err
	}

	us := newUserStore(s.store, username)
	if err := us.setString(ctx, domain.KeyUserName, profile.Name); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := us.setString(ctx, domain.KeyUserEmail, profile.Email); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return &profile, nil
}

// GetCalorieGoal returns the saved daily goal, 0 when unset
func (s *ProfileService) GetCalorieGoal(ctx context.Context, username string) (int, error) {
	goal, err := newUserStore(s.store, username).getInt(ctx, domain.KeyCalorieGoal)
	if err != nil {
		return 0, fmt.Errorf("failed to get calorie goal: %w", err)
	}
	return goal, nil
}

// SetCalorieGoal stores a positive daily goal
func (s *ProfileService) SetCalorieGoal(ctx context.Context, username string, goal int) (int, error) {
	if err := domain.ValidateCalorieGoal(goal); err != nil {
		return 0, err
	}
	if err := newUserStore(s.store, username).setInt(ctx, domain.KeyCalorieGoal, goal); err != nil {
		return 0, fmt.Errorf("failed to set calorie goal: %w", err)
	}
	return goal, nil
}

// Greeting builds the greeting line using the stored display name
func (s *ProfileService) Greeting(ctx context.Context, username string, now time.Time) (*domain.Greeting, error) {
	name, err := newUserStore(s.store, username).getString(ctx, domain.KeyUserName)
	if err != nil {
		return nil, fmt.Errorf("failed to get greeting: %w", err)
	}
	greeting := domain.NewGreeting(now, name)
	return &greeting, nil
}

// Ensure ProfileService implements the interface
var _ ports.ProfileService = (*ProfileService)(nil)
