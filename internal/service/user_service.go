package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fleetbook/internal/auth"
	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/repository"
)

type UserService struct {
	users     repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *UserService) Register(ctx context.Context, req entities.RegisterRequest) (*db.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	u := &db.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         db.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", apperrors.Unauthorized("invalid credentials")
	}
	if !u.IsActive {
		return "", apperrors.Unauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", apperrors.Unauthorized("invalid credentials")
	}
	token, err := auth.GenerateToken(s.jwtSecret, u, s.tokenTTL)
	if err != nil {
		return "", apperrors.Storage(err)
	}
	return token, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor *db.User, req entities.UpdateProfileRequest) (*db.User, error) {
	u := *actor
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Storage(err)
		}
		u.PasswordHash = string(hash)
	}
	if err := s.users.Update(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
