package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAuthRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
	nextID  int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.byEmail[clone.Email] = &clone
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubAuthRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRegister_Success(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected an id")
	}
	if user.SubscriptionTier != domain.TierFree {
		t.Fatalf("new accounts start free, got %s", user.SubscriptionTier)
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password stored in plain text")
	}
}

func TestRegister_RejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	cases := []struct{ email, password string }{
		{"not-an-email", "password123"},
		{"a@b.c", "password123"}, // email too short
		{"alice@example.com", "12345"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.email, tc.password)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "alice@example.com", "password123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), "alice@example.com", "password123")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin_ReturnsSignedToken(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	created, err := svc.Register(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("user id = %q, want %q", user.ID, created.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["user_id"] != created.ID {
		t.Fatalf("token user_id = %v", claims["user_id"])
	}
	if claims["email"] != "alice@example.com" {
		t.Fatalf("token email = %v", claims["email"])
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)
	if _, err := svc.Register(context.Background(), "alice@example.com", "password123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "password123")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpgradeToPremium(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.UpgradeToPremium(context.Background(), user.ID); err != nil {
		t.Fatalf("upgrade failed: %v", err)
	}
	saved, _ := repo.FindByID(context.Background(), user.ID)
	if !saved.IsPremium() {
		t.Fatal("user not premium after upgrade")
	}
}

func TestShareWithPartner(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	alice, _ := svc.Register(context.Background(), "alice@example.com", "password123")
	bob, _ := svc.Register(context.Background(), "bob@example.com", "password123")

	partnerID, err := svc.ShareWithPartner(context.Background(), alice.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	if partnerID != bob.ID {
		t.Fatalf("partner id = %q, want %q", partnerID, bob.ID)
	}
	saved, _ := repo.FindByID(context.Background(), alice.ID)
	if saved.PartnerID != bob.ID {
		t.Fatal("partner link not recorded")
	}
}

func TestShareWithPartner_UnknownEmail(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)
	alice, _ := svc.Register(context.Background(), "alice@example.com", "password123")

	_, err := svc.ShareWithPartner(context.Background(), alice.ID, "ghost@example.com")
	if !errors.Is(err, domain.ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound, got %v", err)
	}
}
