package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func testService(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	s, err := NewService(filepath.Join(t.TempDir(), "users.json"), ttl)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return s
}

func drainChange(t *testing.T, s *Service) Change {
	t.Helper()
	select {
	case c := <-s.Changes():
		return c
	default:
		t.Fatal("no owner-change notification")
		return Change{}
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	s := testService(t, time.Hour)

	ownerID, token, err := s.SignUp("Ivan@Example.COM", "секрет", "Иван")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if ownerID == "" || token == "" {
		t.Fatal("SignUp() returned empty owner or token")
	}
	if c := drainChange(t, s); c.OwnerID != ownerID {
		t.Errorf("notification owner = %q, want %q", c.OwnerID, ownerID)
	}

	got, err := s.CurrentOwnerID(token)
	if err != nil || got != ownerID {
		t.Errorf("CurrentOwnerID() = %q, %v", got, err)
	}

	// Email is matched case-insensitively.
	ownerID2, token2, err := s.SignIn("ivan@example.com", "секрет")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if ownerID2 != ownerID {
		t.Errorf("SignIn() owner = %q, want %q", ownerID2, ownerID)
	}
	if token2 == token {
		t.Error("SignIn() reused the sign-up token")
	}

	account, ok := s.AccountByID(ownerID)
	if !ok || account.Email != "ivan@example.com" || account.DisplayName != "Иван" {
		t.Errorf("AccountByID() = %+v, %v", account, ok)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	s := testService(t, time.Hour)
	s.SignUp("ivan@example.com", "секрет", "")

	if _, _, err := s.SignUp("IVAN@example.com", "другой", ""); err != ErrEmailTaken {
		t.Errorf("duplicate SignUp() error = %v, want ErrEmailTaken", err)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	s := testService(t, time.Hour)
	s.SignUp("ivan@example.com", "секрет", "")
	<-s.Changes()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ivan@example.com", "не тот"},
		{"unknown email", "nobody@example.com", "секрет"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.SignIn(tt.email, tt.password); err != ErrInvalidCredentials {
				t.Errorf("SignIn() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestSignOut(t *testing.T) {
	s := testService(t, time.Hour)
	ownerID, token, _ := s.SignUp("ivan@example.com", "секрет", "")
	<-s.Changes()

	s.SignOut(token)
	c := drainChange(t, s)
	if c.OwnerID != "" {
		t.Errorf("sign-out notification owner = %q, want empty", c.OwnerID)
	}
	if c.Previous != ownerID {
		t.Errorf("sign-out notification previous = %q, want %q", c.Previous, ownerID)
	}
	if _, err := s.CurrentOwnerID(token); err != ErrSessionNotFound {
		t.Errorf("CurrentOwnerID() after sign-out error = %v, want ErrSessionNotFound", err)
	}

	// Unknown tokens are a silent no-op.
	s.SignOut("bogus")
	select {
	case c := <-s.Changes():
		t.Errorf("unexpected notification %+v for unknown token", c)
	default:
	}
}

func TestSessionExpiry(t *testing.T) {
	s := testService(t, time.Hour)
	base := time.Date(2024, time.August, 20, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	_, token, err := s.SignUp("ivan@example.com", "секрет", "")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := s.CurrentOwnerID(token); err != nil {
		t.Fatalf("fresh session rejected: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := s.CurrentOwnerID(token); err != ErrSessionNotFound {
		t.Errorf("expired session error = %v, want ErrSessionNotFound", err)
	}

	if removed := s.SweepSessions(); removed != 1 {
		t.Errorf("SweepSessions() = %d, want 1", removed)
	}
	if removed := s.SweepSessions(); removed != 0 {
		t.Errorf("second SweepSessions() = %d, want 0", removed)
	}
}

func TestAccountsPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	s, err := NewService(path, time.Hour)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	ownerID, err := s.CreateAccount("ivan@example.com", "секрет", "Иван")
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	reopened, err := NewService(path, time.Hour)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}

	// The account survives; sessions do not.
	if _, _, err := reopened.SignIn("ivan@example.com", "секрет"); err != nil {
		t.Errorf("SignIn() after reopen error = %v", err)
	}
	account, ok := reopened.AccountByID(ownerID)
	if !ok || account.DisplayName != "Иван" {
		t.Errorf("AccountByID() after reopen = %+v, %v", account, ok)
	}
}

func TestCreateAccountOpensNoSession(t *testing.T) {
	s := testService(t, time.Hour)
	if _, err := s.CreateAccount("ivan@example.com", "секрет", ""); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if len(s.sessions) != 0 {
		t.Errorf("CreateAccount() opened %d sessions, want 0", len(s.sessions))
	}
	select {
	case c := <-s.Changes():
		t.Errorf("unexpected notification %+v", c)
	default:
	}
}
