package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/charerimana/agrisense/internal/domain"
	"github.com/charerimana/agrisense/internal/repository"
)

const tokenTTL = 24 * time.Hour

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func normalizeAccount(account string) string {
	return strings.TrimSpace(strings.ToLower(account))
}

// HashAccountPassword hashing rule for users.password_hash:
// sha256(lower(account) + ":" + password).
func HashAccountPassword(account, password string) string {
	return sha256Hex(normalizeAccount(account) + ":" + password)
}

type session struct {
	userID    string
	expiresAt time.Time
}

// AuthStore in-memory bearer tokens on top of the users table. Tokens are
// opaque uuids with a fixed TTL; the account/password check itself goes
// through UsersRepository.
type AuthStore struct {
	usersRepo repository.UsersRepository

	mu       sync.RWMutex
	sessions map[string]session
}

func NewAuthStore(usersRepo repository.UsersRepository) *AuthStore {
	return &AuthStore{
		usersRepo: usersRepo,
		sessions:  map[string]session{},
	}
}

// Login verifies credentials and issues a token.
func (s *AuthStore) Login(ctx context.Context, account, password string) (string, *domain.User, error) {
	user, err := s.usersRepo.GetUserByAccount(ctx, normalizeAccount(account))
	if err != nil {
		return "", nil, err
	}
	if user.PasswordHash != HashAccountPassword(account, password) {
		return "", nil, domain.ErrForbidden
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{userID: user.UserID, expiresAt: time.Now().Add(tokenTTL)}
	s.mu.Unlock()
	return token, user, nil
}

// UserFromRequest resolves the Bearer token to its user. Expired or unknown
// tokens fail with domain.ErrForbidden.
func (s *AuthStore) UserFromRequest(r *http.Request) (*domain.User, error) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, domain.ErrForbidden
	}

	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(sess.expiresAt) {
		return nil, domain.ErrForbidden
	}

	return s.usersRepo.GetUser(r.Context(), sess.userID)
}
