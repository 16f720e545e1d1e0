package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
	"github.com/insurancereminder/policy-engine/internal/core/ports"
)

// AuthService implements registration, login, and the premium flag flip.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates an account. The email and password rules are the
// product's deliberately simple predicates.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if !domain.ValidateEmail(email) || !domain.ValidatePassword(password) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:            email,
		PasswordHash:     string(hash),
		SubscriptionTier: domain.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// UpgradeToPremium flips the subscription flag. There is no billing step:
// holding an account is the only requirement.
func (s *AuthService) UpgradeToPremium(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.SubscriptionTier = domain.TierPremium
	return s.repo.Update(ctx, user)
}

// ShareWithPartner looks the partner up by email and records the link on the
// caller's account. Returns the partner's user id.
func (s *AuthService) ShareWithPartner(ctx context.Context, userID, partnerEmail string) (string, error) {
	partner, err := s.repo.FindByEmail(ctx, partnerEmail)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrPartnerNotFound
		}
		return "", err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	user.PartnerID = partner.ID
	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}
	return partner.ID, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"tier":    string(user.SubscriptionTier),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
