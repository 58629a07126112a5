package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cacheEntry stores verified JWT claims keyed by JTI (JWT ID)
type cacheEntry struct {
	claims jwt.MapClaims
	exp    int64
}

// SessionChecker reports whether a user's session flag is still set
type SessionChecker interface {
	IsLoggedIn(ctx context.Context, username string) (bool, error)
}

// AuthMiddleware validates HS256 session tokens and checks the session flag.
// Verified claims are cached by JTI; the flag is checked on every request so logout takes effect at once.
type AuthMiddleware struct {
	secret   []byte
	sessions SessionChecker
	// in-memory cache keyed by JTI for fast lookups
	cache sync.Map
	// Background janitor for cache cleanup
	janitorStop chan bool
	stopOnce    sync.Once
}

const CacheCleanupInterval = 10 * time.Minute

// NewAuthMiddleware creates a new JWT authentication middleware
// secret: HS256 key shared with the auth service that issues tokens
func NewAuthMiddleware(secret []byte, sessions SessionChecker) *AuthMiddleware {
	m := &AuthMiddleware{
		secret:      secret,
		sessions:    sessions,
		janitorStop: make(chan bool),
	}

	go m.startJanitor(CacheCleanupInterval)

	return m
}

// Context keys for storing user information
type contextKey string

const (
	UsernameKey contextKey = "username"
	TokenKey    contextKey = "token"
)

var (
	errInvalidClaims   = errors.New("invalid token claims")
	errMissingExpiry   = errors.New("missing expiration claim")
	errTokenExpired    = errors.New("token expired")
	errMissingUsername = errors.New("missing or invalid username claim")
)

// GetClaimsFromCacheOrParse extracts claims from cache or verifies the token
// Returns claims, JTI, and error
func (m *AuthMiddleware) GetClaimsFromCacheOrParse(tokenString string) (jwt.MapClaims, string, error) {
	// Peek at the JTI without verifying the signature yet
	parser := new(jwt.Parser)
	unverifiedToken, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, "", err
	}

	claims, ok := unverifiedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", errInvalidClaims
	}

	// Tokens without a JTI are verified every time and never cached
	jti, _ := claims["jti"].(string)

	var exp int64
	if expFloat, ok := claims["exp"].(float64); ok {
		exp = int64(expFloat)
	} else {
		return nil, "", errMissingExpiry
	}

	// Immediate expiry check (fastest fail path)
	if time.Now().Unix() > exp {
		return nil, "", errTokenExpired
	}

	if jti != "" {
		if entry, ok := m.cache.Load(jti); ok {
			cached := entry.(cacheEntry)
			if time.Now().Unix() < cached.exp {
				return cached.claims, jti, nil
			}
			m.cache.Delete(jti)
		}
	}

	// Full HMAC validation (cold path - only when cache miss)
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, "", err
	}

	if !token.Valid {
		return nil, "", jwt.ErrSignatureInvalid
	}

	verifiedClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "", errInvalidClaims
	}

	if jti != "" {
		m.cache.Store(jti, cacheEntry{claims: verifiedClaims, exp: exp})
	}

	return verifiedClaims, jti, nil
}

// Authenticate validates a token and returns the username it was issued to
func (m *AuthMiddleware) Authenticate(tokenString string) (string, error) {
	claims, _, err := m.GetClaimsFromCacheOrParse(tokenString)
	if err != nil {
		return "", err
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", errMissingUsername
	}

	return username, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth is middleware that validates the JWT from the Authorization header
// and checks the user is still logged in. Adds the username to the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		tokenString, ok := bearerToken(r)
		if !ok {
			log.Printf("Missing or malformed Authorization header")
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		claims, jti, err := m.GetClaimsFromCacheOrParse(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		username, ok := claims["sub"].(string)
		if !ok || username == "" {
			log.Printf("Missing or invalid 'sub' claim")
			http.Error(w, "invalid token: missing username", http.StatusUnauthorized)
			return
		}

		loggedIn, err := m.sessions.IsLoggedIn(r.Context(), username)
		if err != nil {
			log.Printf("Session check failed for %s: %v", username, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if !loggedIn {
			log.Printf("Session ended for %s (JTI: %s)", username, jti)
			http.Error(w, "session ended", http.StatusUnauthorized)
			return
		}

		log.Printf("Token validated - Username: %s, JTI: %s (processing time: %v)", username, jti, time.Since(start))

		ctx := context.WithValue(r.Context(), UsernameKey, username)
		ctx = context.WithValue(ctx, TokenKey, tokenString)

		next(w, r.WithContext(ctx))
	}
}

// startJanitor periodically cleans up expired cache entries
func (m *AuthMiddleware) startJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if deleted := m.purgeExpired(time.Now().Unix()); deleted > 0 {
				log.Printf("Token cache janitor: purged %d expired entries", deleted)
			}
		case <-m.janitorStop:
			return
		}
	}
}

func (m *AuthMiddleware) purgeExpired(now int64) int {
	deleted := 0
	m.cache.Range(func(key, value interface{}) bool {
		if entry, ok := value.(cacheEntry); ok && now >= entry.exp {
			m.cache.Delete(key)
			deleted++
		}
		return true
	})
	return deleted
}

// Stop stops the background janitor (for graceful shutdown)
func (m *AuthMiddleware) Stop() {
	m.stopOnce.Do(func() {
		close(m.janitorStop)
	})
}

// GetUsername extracts the username from request context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}

// GetToken extracts token string from request context
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
