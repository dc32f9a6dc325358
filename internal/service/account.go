package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prathmeshnaik91/skinet/internal/domain"
	"github.com/prathmeshnaik91/skinet/internal/repository"
	"github.com/prathmeshnaik91/skinet/internal/repository/specification"
	apperrors "github.com/prathmeshnaik91/skinet/pkg/errors"
	"github.com/prathmeshnaik91/skinet/pkg/validator"
)

const (
	DefaultBcryptCost = 12

	minPasswordLength = 6
	maxPasswordLength = 10
)

// ErrEmailInUse is reported as a validation error on registration.
const ErrEmailInUse = "Email address is in use"

const passwordRuleMessage = "Password must have 1 uppercase, 1 lowercase, 1 number, 1 non alphanumeric and between 6 and 10 characters"

type LoginDto struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterDto struct {
	DisplayName string `json:"displayName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

// UserDto is returned by every account operation that authenticates.
type UserDto struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

type AddressDto struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zipcode   string `json:"zipcode" validate:"required"`
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	CreateToken(email, displayName string) (string, error)
}

// AccountService registers and authenticates users and keeps their address.
type AccountService struct {
	users      repository.Repository[domain.AppUser]
	addresses  repository.Repository[domain.Address]
	tokens     TokenIssuer
	logger     *slog.Logger
	bcryptCost int
}

func NewAccountService(
	users repository.Repository[domain.AppUser],
	addresses repository.Repository[domain.Address],
	tokens TokenIssuer,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:      users,
		addresses:  addresses,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: DefaultBcryptCost,
	}
}

// WithBcryptCost overrides the hashing cost.
func (s *AccountService) WithBcryptCost(cost int) *AccountService {
	s.bcryptCost = cost
	return s
}

// Register creates a user and returns it signed in.
func (s *AccountService) Register(ctx context.Context, input RegisterDto) (*UserDto, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Validation(ErrEmailInUse)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.AppUser{
		ID:           uuid.NewString(),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Email:        normalizeEmail(input.Email),
		PasswordHash: string(hash),
	}
	if err := s.users.Add(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.Validation(ErrEmailInUse)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return s.userDto(user)
}

// Login checks the credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, input LoginDto) (*UserDto, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetEntityWithSpec(ctx, specification.UserByEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.InfoContext(ctx, "login failed", slog.String("user_id", user.ID))
		return nil, apperrors.Unauthorized("")
	}

	return s.userDto(user)
}

// CurrentUser returns the authenticated user with a fresh token.
func (s *AccountService) CurrentUser(ctx context.Context, email string) (*UserDto, error) {
	user, err := s.findUser(ctx, specification.UserByEmail(email))
	if err != nil {
		return nil, err
	}
	return s.userDto(user)
}

func (s *AccountService) EmailExists(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	n, err := s.users.Count(ctx, specification.UserByEmail(email))
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return n > 0, nil
}

// GetAddress returns the user's address or a 404 when none is saved yet.
func (s *AccountService) GetAddress(ctx context.Context, email string) (*AddressDto, error) {
	user, err := s.findUser(ctx, specification.UserWithAddressByEmail(email))
	if err != nil {
		return nil, err
	}
	if user.Address == nil {
		return nil, apperrors.NotFound("address", user.Email)
	}
	return toAddressDto(user.Address), nil
}

// UpdateAddress creates or replaces the user's address.
func (s *AccountService) UpdateAddress(ctx context.Context, email string, input AddressDto) (*AddressDto, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, specification.UserWithAddressByEmail(email))
	if err != nil {
		return nil, err
	}

	addr := &domain.Address{AppUserID: user.ID}
	if user.Address != nil {
		addr.ID = user.Address.ID
	}
	addr.FirstName = input.FirstName
	addr.LastName = input.LastName
	addr.Street = input.Street
	addr.City = input.City
	addr.State = input.State
	addr.Zipcode = input.Zipcode

	if addr.ID == 0 {
		err = s.addresses.Add(ctx, addr)
	} else {
		err = s.addresses.Update(ctx, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}

	s.logger.InfoContext(ctx, "address updated", slog.String("user_id", user.ID))
	return toAddressDto(addr), nil
}

func (s *AccountService) findUser(ctx context.Context, spec specification.Specification[domain.AppUser]) (*domain.AppUser, error) {
	user, err := s.users.GetEntityWithSpec(ctx, spec)
	if err != nil {
		// A valid token for a user that no longer exists.
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AccountService) userDto(user *domain.AppUser) (*UserDto, error) {
	token, err := s.tokens.CreateToken(user.Email, user.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &UserDto{Email: user.Email, DisplayName: user.DisplayName, Token: token}, nil
}

// ValidatePassword enforces the store's password complexity rule.
func ValidatePassword(password string) error {
	var upper, lower, digit, symbol bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsSpace(r):
			return apperrors.Validation(passwordRuleMessage)
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if n < minPasswordLength || n > maxPasswordLength || !upper || !lower || !digit || !symbol {
		return apperrors.Validation(passwordRuleMessage)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toAddressDto(a *domain.Address) *AddressDto {
	return &AddressDto{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Zipcode:   a.Zipcode,
	}
}
