package service

import (
	"errors"

	"bizlist/internal/auth"
	"bizlist/internal/domain"
	"bizlist/internal/models"
	"bizlist/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
)

type AuthService struct {
	issuer   *auth.Issuer
	userRepo *repository.UserRepository
}

func NewAuthService(issuer *auth.Issuer, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{issuer: issuer, userRepo: userRepo}
}

func (s *AuthService) Register(email, username, password, role string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	if role != domain.RoleProducer {
		role = domain.RoleMember
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, err := s.issuer.AccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := s.issuer.RefreshToken(u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := s.issuer.AccessToken(u.ID, u.Email, u.Role)
	refresh, _ := s.issuer.RefreshToken(u.ID)
	return u, access, refresh, nil
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	userID, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	access, _ = s.issuer.AccessToken(u.ID, u.Email, u.Role)
	refresh, _ = s.issuer.RefreshToken(u.ID)
	return access, refresh, nil
}
