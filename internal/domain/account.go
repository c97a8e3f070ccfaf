package domain

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredential is the login of the administrator pseudo-account.
// It never corresponds to a row of the users table.
type AdminCredential struct {
	Username string
	Password string
}

func (c AdminCredential) matches(username, passwd string) bool {
	if c.Username == "" || c.Password == "" {
		return false
	}
	userOk := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
	passwdOk := subtle.ConstantTimeCompare([]byte(c.Password), []byte(passwd)) == 1
	return userOk && passwdOk
}

// Column limit of users.username
const maxUsernameLen = 80

type AccountService struct {
	users      UserRepo
	admin      AdminCredential
	bcryptCost int
}

func NewAccountService(users UserRepo, admin AdminCredential, bcryptCost int) *AccountService {
	return &AccountService{
		users:      users,
		admin:      admin,
		bcryptCost: bcryptCost,
	}
}

func (s *AccountService) Register(ctx context.Context, username string, passwd string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &ValidationError{Field: "username", Message: "El nombre de usuario es obligatorio"}
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("El nombre de usuario no puede superar los %d caracteres", maxUsernameLen),
		}
	}
	if passwd == "" {
		return nil, &ValidationError{Field: "password", Message: "La contraseña es obligatoria"}
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwd), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &User{
		Username:   username,
		PasswdHash: string(hash),
		Role:       RoleUser,
	}
	// The repo maps a unique violation to ErrDuplicateUsername, in case
	// someone registered the same name after the check above.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) Authenticate(ctx context.Context, username string, passwd string) (*Session, error) {
	if s.admin.matches(username, passwd) {
		return &Session{
			Username: username,
			Role:     RoleAdmin,
			IsAdmin:  true,
		}, nil
	}

	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswdHash), []byte(passwd))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	id := user.ID
	return &Session{
		UserID:   &id,
		Username: user.Username,
		Role:     user.Role,
		IsAdmin:  user.Role == RoleAdmin,
	}, nil
}
