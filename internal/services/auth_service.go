package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lapmart/internal/domain"
	"lapmart/internal/repos"
)

var (
	ErrBadCreds    = errors.New("invalid email or password")
	ErrEmailInUse  = errors.New("email already registered")
	ErrWeakPasswrd = errors.New("password does not meet requirements")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Signup(sid, email, name, password string) (*domain.User, error) {
	if existing, err := s.Users.ByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailInUse
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(h), Role: "USER"}
	if err := s.Users.Insert(u); err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
