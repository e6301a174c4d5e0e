package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/cache"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/config"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles worker authentication.
type AuthService struct {
	cfg        *config.Config
	workerRepo repository.WorkerRepository
}

// NewAuthService creates an auth service instance.
func NewAuthService(cfg *config.Config, workerRepo repository.WorkerRepository) *AuthService {
	return &AuthService{
		cfg:        cfg,
		workerRepo: workerRepo,
	}
}

// HashPassword hashes a password with bcrypt.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a password against its hash.
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// WorkerJWTClaims are the claims carried in a worker token.
type WorkerJWTClaims struct {
	WorkerID     uint   `json:"worker_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT issues a signed token for the worker.
func (s *AuthService) GenerateJWT(worker *models.Worker) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := WorkerJWTClaims{
		WorkerID:     worker.ID,
		Name:         worker.Name,
		Role:         worker.Role,
		TokenVersion: worker.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT validates and decodes a worker token.
func (s *AuthService) ParseJWT(tokenString string) (*WorkerJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &WorkerJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*WorkerJWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Login authenticates a worker by email and password.
func (s *AuthService) Login(email, password string) (*models.Worker, string, time.Time, error) {
	worker, err := s.workerRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if worker == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.VerifyPassword(worker.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(worker)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	worker.LastLoginAt = &now
	if err := s.workerRepo.Update(worker); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetWorkerAuthState(context.Background(), cache.BuildWorkerAuthState(worker))

	return worker, token, expiresAt, nil
}

// ChangePassword replaces a worker's password and revokes issued tokens.
func (s *AuthService) ChangePassword(workerID uint, oldPassword, newPassword string) error {
	worker, err := s.workerRepo.GetByID(workerID)
	if err != nil {
		return err
	}
	if worker == nil {
		return ErrWorkerNotFound
	}

	if err := s.VerifyPassword(worker.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	worker.PasswordHash = hashedPassword
	now := time.Now()
	worker.TokenVersion++
	worker.TokenInvalidBefore = &now
	if err := s.workerRepo.Update(worker); err != nil {
		return err
	}
	_ = cache.SetWorkerAuthState(context.Background(), cache.BuildWorkerAuthState(worker))
	return nil
}
