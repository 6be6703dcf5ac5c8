// Package auth is the authentication collaborator: account sign-up and
// sign-in with Argon2id password hashes, opaque session tokens, and an
// owner-identity-changed notification channel the sync flow subscribes to.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSessionNotFound is returned for missing or expired tokens.
	ErrSessionNotFound = errors.New("session not found")
)

const sessionTokenLen = 32

// Account is a registered user.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type session struct {
	ownerID   string
	expiresAt time.Time
}

// Change is an owner-identity-changed notification. OwnerID is the new
// identity, empty after a sign-out; Previous names the owner whose
// session ended, so consumers can release per-owner state.
type Change struct {
	OwnerID  string
	Previous string
}

// Service manages accounts and sessions. Accounts persist to a JSON
// file; sessions live in memory and expire after the configured TTL.
type Service struct {
	mu         sync.RWMutex
	path       string
	accounts   map[string]Account // keyed by lowercased email
	sessions   map[string]session // keyed by token
	sessionTTL time.Duration
	changes    chan Change
	now        func() time.Time
}

// NewService opens (or initializes) the account file at path.
func NewService(path string, sessionTTL time.Duration) (*Service, error) {
	s := &Service{
		path:       path,
		accounts:   make(map[string]Account),
		sessions:   make(map[string]session),
		sessionTTL: sessionTTL,
		changes:    make(chan Change, 16),
		now:        time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read accounts file: %w", err)
	}
	var accounts map[string]Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return fmt.Errorf("failed to parse accounts file: %w", err)
	}
	if accounts != nil {
		s.accounts = accounts
	}
	return nil
}

// saveLocked persists accounts (caller must hold the lock). Written 0600:
// the file carries password hashes.
func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.accounts, "", "  ")
	if err != nil {
		return err
	}
	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpFile, s.path)
}

// Changes is the owner-identity notification channel. Exactly one
// consumer (the event sync flow) is expected.
func (s *Service) Changes() <-chan Change {
	return s.changes
}

func (s *Service) notify(c Change) {
	select {
	case s.changes <- c:
	default:
		log.Printf("Warning: owner-change notification dropped (slow consumer)")
	}
}

// SignUp registers an account and opens a session for it.
func (s *Service) SignUp(email, password, displayName string) (ownerID, token string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", "", ErrInvalidCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		return "", "", ErrEmailTaken
	}
	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.accounts[email] = account
	if err := s.saveLocked(); err != nil {
		delete(s.accounts, email)
		s.mu.Unlock()
		return "", "", fmt.Errorf("failed to save account: %w", err)
	}
	token, err = s.openSessionLocked(account.ID)
	s.mu.Unlock()
	if err != nil {
		return "", "", err
	}

	s.notify(Change{OwnerID: account.ID})
	return account.ID, token, nil
}

// SignIn verifies credentials and opens a session.
func (s *Service) SignIn(email, password string) (ownerID, token string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	account, ok := s.accounts[email]
	if !ok {
		s.mu.Unlock()
		return "", "", ErrInvalidCredentials
	}
	match, err := VerifyPassword(password, account.PasswordHash)
	if err != nil || !match {
		s.mu.Unlock()
		if err != nil {
			log.Printf("Error verifying password for %s: %v", email, err)
		}
		return "", "", ErrInvalidCredentials
	}
	token, err = s.openSessionLocked(account.ID)
	s.mu.Unlock()
	if err != nil {
		return "", "", err
	}

	s.notify(Change{OwnerID: account.ID})
	return account.ID, token, nil
}

// SignOut closes the session. Unknown tokens are a no-op.
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	sess, existed := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if existed {
		s.notify(Change{Previous: sess.ownerID})
	}
}

// CurrentOwnerID resolves a session token to its owner, or "" when the
// token is unknown or expired.
func (s *Service) CurrentOwnerID(token string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || s.now().After(sess.expiresAt) {
		return "", ErrSessionNotFound
	}
	return sess.ownerID, nil
}

// AccountByID looks up a registered account.
func (s *Service) AccountByID(ownerID string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == ownerID {
			return a, true
		}
	}
	return Account{}, false
}

// CreateAccount registers an account without opening a session (used by
// the useradd CLI subcommand).
func (s *Service) CreateAccount(email, password, displayName string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		return "", ErrEmailTaken
	}
	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.accounts[email] = account
	if err := s.saveLocked(); err != nil {
		delete(s.accounts, email)
		return "", fmt.Errorf("failed to save account: %w", err)
	}
	return account.ID, nil
}

func (s *Service) openSessionLocked(ownerID string) (string, error) {
	raw := make([]byte, sessionTokenLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	s.sessions[token] = session{
		ownerID:   ownerID,
		expiresAt: s.now().Add(s.sessionTTL),
	}
	return token, nil
}

// SweepSessions drops expired sessions and returns how many were removed.
func (s *Service) SweepSessions() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
