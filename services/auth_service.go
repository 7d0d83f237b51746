package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/models"
	"storefront/repositories"
	"storefront/utils"

	"github.com/sirupsen/logrus"
)

type AuthService struct {
	users     UserStore
	notifier  OrderNotifications
	jwtSecret string
	jwtTTL    time.Duration
	log       logrus.FieldLogger
}

func NewAuthService(users UserStore, notifier OrderNotifications, jwtSecret string, jwtTTL time.Duration, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:     users,
		notifier:  notifier,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
		Role:      models.RoleCustomer,
		IsActive:  true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, err := utils.GenerateToken(s.jwtSecret, s.jwtTTL, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	s.notifier.Welcome(*user)

	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := utils.GenerateToken(s.jwtSecret, s.jwtTTL, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	return &models.LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapStoreErr(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile only overwrites the fields that were sent.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&user.FirstName, req.FirstName)
	set(&user.LastName, req.LastName)
	set(&user.Phone, req.Phone)
	set(&user.Address, req.Address)
	set(&user.City, req.City)
	set(&user.PostalCode, req.PostalCode)
	set(&user.Country, req.Country)

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, mapStoreErr(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := utils.VerifyPassword(user.Password, req.OldPassword)
	if err != nil || !valid {
		return ErrWrongPassword
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return mapStoreErr(s.users.UpdatePassword(ctx, userID, hash), ErrUserNotFound)
}

// EnsureAdmin seeds the back office account. Empty credentials are a no-op.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpsertAdmin(ctx, email, hash); err != nil {
		return err
	}

	s.log.WithField("email", email).Info("Admin account ensured")
	return nil
}
