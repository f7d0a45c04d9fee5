package server

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// requestLogger tags every request with an X-Request-ID and logs the
// method, path, status, and duration.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)

		start := time.Now()
		err := c.Next()
		// The error handler runs after this middleware returns, so on
		// failure the response status is not written yet; derive the
		// logged code from the error itself.
		status := c.Response().StatusCode()
		if err != nil {
			status, _ = mapError(err)
		}
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s",
			id, c.Method(), c.OriginalURL(), status, time.Since(start))
		return err
	}
}

// requireAuth verifies the bearer token and resolves the acting user. The
// user ID lands in c.Locals("user_id"); every reading-list handler keys the
// engine off it.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	raw, err := bearerToken(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	if s.revoked.contains(raw) {
		return fiber.NewError(fiber.StatusUnauthorized, "token has been revoked")
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
	}
	if _, err := s.db.GetUser(userID); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "user no longer exists")
	}

	c.Locals("user_id", userID)
	c.Locals("token", raw)
	if claims.ExpiresAt != nil {
		c.Locals("token_exp", claims.ExpiresAt.Time)
	}
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", fmt.Errorf("malformed Authorization header")
	}
	return token, nil
}

// userID returns the authenticated user resolved by requireAuth.
func userID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}

// revokedTokens remembers logged-out tokens until they expire on their own,
// so a signed token cannot be replayed after logout.
type revokedTokens struct {
	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

func newRevokedTokens() *revokedTokens {
	return &revokedTokens{tokens: make(map[string]time.Time)}
}

func (r *revokedTokens) revoke(token string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	r.tokens[token] = expiresAt
}

func (r *revokedTokens) contains(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	_, ok := r.tokens[token]
	return ok
}

// prune drops entries whose tokens have expired anyway. Caller holds the lock.
func (r *revokedTokens) prune() {
	now := time.Now()
	for tok, exp := range r.tokens {
		if now.After(exp) {
			delete(r.tokens, tok)
		}
	}
}
