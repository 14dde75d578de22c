package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/shvarc/provider/internal/pkg/cache"
	"github.com/shvarc/provider/internal/pkg/env"
)

// Session keys
const (
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyIsAdmin  = "is_admin"
)

// Identity is the logged-in user as kept in the session.
type Identity struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

// Store wraps the fiber session store with the login helpers.
type Store struct {
	*session.Store
}

// NewRedisStore keeps sessions in Redis database 1; the cache uses DB 0.
func NewRedisStore() *Store {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	return newStore(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour * 24,
		KeyLookup:      "cookie:session_id",
	})
}

// NewMemoryStore keeps sessions in process memory.
func NewMemoryStore() *Store {
	return newStore(session.Config{
		CookieHTTPOnly: true,
		Expiration:     time.Hour,
		KeyLookup:      "cookie:session_id",
	})
}

func newStore(cfg session.Config) *Store {
	return &Store{Store: session.New(cfg)}
}

// Login starts a fresh session for the user.
func (s *Store) Login(c *fiber.Ctx, id Identity) error {
	sess, err := s.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}

	sess.Set(KeyUserID, id.UserID)
	sess.Set(KeyUsername, id.Username)
	sess.Set(KeyIsAdmin, id.IsAdmin)
	return sess.Save()
}

// Logout destroys the session.
func (s *Store) Logout(c *fiber.Ctx) error {
	sess, err := s.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	return sess.Destroy()
}

// User returns the logged-in user stored in the session. ok is false for
// anonymous visitors.
func (s *Store) User(c *fiber.Ctx) (Identity, bool) {
	sess, err := s.Get(c)
	if err != nil {
		return Identity{}, false
	}

	userID, ok := sess.Get(KeyUserID).(uint)
	if !ok || userID == 0 {
		return Identity{}, false
	}
	username, _ := sess.Get(KeyUsername).(string)
	isAdmin, _ := sess.Get(KeyIsAdmin).(bool)
	return Identity{UserID: userID, Username: username, IsAdmin: isAdmin}, true
}
