package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/pkg/jwt"
	"github.com/staybook/hotel-reservation-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

var adminOnly = []models.UserRole{models.RoleAdmin}

// UserService handles registration, login, token refresh, profiles and
// admin user management
type UserService struct {
	users      UserStore
	hotels     HotelStore
	gate       *Gate
	tokens     *jwt.Service
	notifier   Notifier
	phones     *validator.PhoneValidator
	logger     *logrus.Logger
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(
	users UserStore,
	hotels HotelStore,
	gate *Gate,
	tokens *jwt.Service,
	notifier Notifier,
	logger *logrus.Logger,
	bcryptCost int,
) *UserService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		hotels:     hotels,
		gate:       gate,
		tokens:     tokens,
		notifier:   notifier,
		phones:     validator.NewPhoneValidator(),
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates a USER account and signs it in
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	phone, err := s.phone(req.Phone)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:     normalizeEmail(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     phone,
		Role:      models.RoleUser,
	}
	if err := s.create(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.notifier.Welcome(ctx, user)
	return s.issueTokens(user)
}

// Login verifies credentials. Unknown email and wrong password return the
// same AuthenticationError.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, AuthenticationError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, AuthenticationError("Invalid email or password")
	}

	if err := s.attachManagedHotel(ctx, user); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair. The role is
// re-read so a role change takes effect on the next refresh.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, AuthenticationError("Invalid or expired refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, AuthenticationError("User no longer exists")
	}
	return s.issueTokens(user)
}

// Me returns the actor's profile with their managed hotel, if any
func (s *UserService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError("User not found")
	}
	if err := s.attachManagedHotel(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the actor's own name, phone or password. Changing
// the password requires the current one.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError("User not found")
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		phone, err := s.phone(*req.Phone)
		if err != nil {
			return nil, err
		}
		user.Phone = phone
	}
	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, ValidationError("Current password is incorrect")
		}
		if err := s.setPassword(user, req.NewPassword); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users, optionally of one role. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor Actor, role models.UserRole) ([]models.User, error) {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return nil, err
	}
	if role != "" && !role.IsValid() {
		return nil, ValidationError("Invalid role %q", role)
	}

	users, err := s.users.List(ctx, role)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Role == models.RoleManager {
			if err := s.attachManagedHotel(ctx, &users[i]); err != nil {
				return nil, err
			}
		}
	}
	return users, nil
}

// CreateUser creates an account with any role. Admin only.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, req models.CreateUserRequest) (*models.User, error) {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, ValidationError("Invalid role %q", req.Role)
	}
	phone, err := s.phone(req.Phone)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     normalizeEmail(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     phone,
		Role:      req.Role,
	}
	if err := s.create(ctx, user, req.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser edits any account. A manager who runs a hotel keeps the
// MANAGER role until unassigned. Admin only.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError("User not found")
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ConflictError("Email is already registered")
			}
			user.Email = email
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		phone, err := s.phone(*req.Phone)
		if err != nil {
			return nil, err
		}
		user.Phone = phone
	}
	if req.Password != nil {
		if err := s.setPassword(user, *req.Password); err != nil {
			return nil, err
		}
	}
	if req.Role != nil && *req.Role != user.Role {
		if !req.Role.IsValid() {
			return nil, ValidationError("Invalid role %q", *req.Role)
		}
		if user.Role == models.RoleManager {
			hotel, err := s.hotels.GetByManagerID(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			if hotel != nil {
				return nil, ConflictError("User manages %s; unassign them before changing their role", hotel.Name)
			}
		}
		user.Role = *req.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateStoreError(err, "Email is already registered")
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves and a
// manager still assigned to a hotel cannot be deleted. Admin only.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return err
	}
	if id == actor.UserID {
		return ConflictError("You cannot delete your own account")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFoundError("User not found")
	}

	hotel, err := s.hotels.GetByManagerID(ctx, id)
	if err != nil {
		return err
	}
	if hotel != nil {
		return ConflictError("User manages %s; unassign them before deleting the account", hotel.Name)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return NotFoundError("User not found")
		case errors.Is(err, database.ErrForeignKey):
			return ConflictError("User has reservations and cannot be deleted")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  id,
		"actor_id": actor.UserID,
	}).Info("User deleted")
	return nil
}

func (s *UserService) create(ctx context.Context, user *models.User, password string) error {
	existing, err := s.users.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ConflictError("Email is already registered")
	}

	if err := s.setPassword(user, password); err != nil {
		return err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return translateStoreError(err, "Email is already registered")
	}
	return nil
}

func (s *UserService) setPassword(user *models.User, password string) error {
	if len(password) < 8 {
		return ValidationError("Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return nil
}

func (s *UserService) attachManagedHotel(ctx context.Context, user *models.User) error {
	if user.Role != models.RoleManager {
		return nil
	}
	hotel, err := s.hotels.GetByManagerID(ctx, user.ID)
	if err != nil {
		return err
	}
	if hotel != nil {
		user.ManagedHotel = &models.HotelSummary{
			ID:      hotel.ID,
			Name:    hotel.Name,
			City:    hotel.City,
			Country: hotel.Country,
		}
	}
	return nil
}

func (s *UserService) issueTokens(user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}

// phone sanitizes an optional phone number. Empty clears it.
func (s *UserService) phone(raw string) (models.NullString, error) {
	if strings.TrimSpace(raw) == "" {
		return models.NullString{}, nil
	}
	sanitized, err := s.phones.Validate(raw)
	if err != nil {
		return models.NullString{}, ValidationError("Invalid phone number: %v", err)
	}
	return models.NewNullString(sanitized), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
