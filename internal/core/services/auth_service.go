package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IANDYI/health-tracker/internal/core/domain"
	"github.com/IANDYI/health-tracker/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionFlagValue = "1"

// AuthService implements registration, login and session handling.
// Sessions are an HS256 token plus the per-user isLoggedIn flag.
type AuthService struct {
	store    ports.KeyValueStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time

	// usersMu serialises read-modify-write of the shared users map
	usersMu sync.Mutex
}

// NewAuthService creates a new auth service
// secret: HS256 signing key shared with the auth middleware
func NewAuthService(store ports.KeyValueStore, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *AuthService) loadUsers(ctx context.Context) (domain.Users, error) {
	users := domain.Users{}
	if err := getJSON(ctx, s.store, domain.KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (s *AuthService) saveUsers(ctx context.Context, users domain.Users) error {
	if err := setJSON(ctx, s.store, domain.KeyUsers, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// SeedDemoAccount creates the demo user when it does not exist yet
func (s *AuthService) SeedDemoAccount(ctx context.Context) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	if _, exists := users[domain.DemoUsername]; exists {
		return nil
	}

	users[domain.DemoUsername] = domain.User{Password: domain.DemoPassword}
	if err := s.saveUsers(ctx, users); err != nil {
		return err
	}

	logAuth("demo_account_seeded", domain.DemoUsername)
	return nil
}

// Register creates a user and starts a session
func (s *AuthService) Register(ctx context.Context, creds domain.Credentials) (*ports.Session, error) {
	creds = creds.Normalize()

	if err := s.addUser(ctx, creds); err != nil {
		return nil, err
	}

	logAuth("user_registered", creds.Username)
	return s.startSession(ctx, creds.Username)
}

// addUser validates a registration and stores it in the users map
func (s *AuthService) addUser(ctx context.Context, creds domain.Credentials) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	if err := domain.ValidateRegistration(creds, users); err != nil {
		return err
	}

	users[creds.Username] = domain.User{Password: creds.Password}
	return s.saveUsers(ctx, users)
}

// Login checks credentials and starts a session
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*ports.Session, error) {
	creds = creds.Normalize()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckLogin(creds, users); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			logAuth("login_failed", creds.Username)
		}
		return nil, err
	}

	logAuth("user_logged_in", creds.Username)
	return s.startSession(ctx, creds.Username)
}

// Logout clears the session flag. The stored display name is kept.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	if err := newUserStore(s.store, username).delete(ctx, domain.KeyIsLoggedIn); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	logAuth("user_logged_out", username)
	return nil
}

// IsLoggedIn reports whether the user's session flag is set
func (s *AuthService) IsLoggedIn(ctx context.Context, username string) (bool, error) {
	flag, err := newUserStore(s.store, username).getString(ctx, domain.KeyIsLoggedIn)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return flag == sessionFlagValue, nil
}

func (s *AuthService) startSession(ctx context.Context, username string) (*ports.Session, error) {
	us := newUserStore(s.store, username)
	if err := us.setString(ctx, domain.KeyIsLoggedIn, sessionFlagValue); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := us.setString(ctx, domain.KeyUserName, username); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return s.issueToken(username)
}

func (s *AuthService) issueToken(username string) (*ports.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &ports.Session{
		Username:  username,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// logAuth logs structured JSON for authentication events
func logAuth(action, username string) {
	logEntry := map[string]interface{}{
		"event":     action,
		"username":  username,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("Failed to marshal auth log entry: %v", err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}

// Ensure AuthService implements the interface
var _ ports.AuthService = (*AuthService)(nil)
