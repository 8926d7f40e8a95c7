// Package services содержит логику бизнес-уровня для работы с операторами и аутентификацией.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/password"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин-пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// OperatorRepository описывает контракт для работы с операторами в базе данных.
type OperatorRepository interface {
	// RegisterOperator сохраняет нового оператора и возвращает его UID.
	RegisterOperator(ctx context.Context, operator models.Operator) (string, error)

	// GetOperatorByUsername возвращает оператора по имени или ошибку, если не найден.
	GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	operators OperatorRepository
	jwtMaker  jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(operators OperatorRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		operators: operators,
		jwtMaker:  jwtMaker,
	}
}

// Register создает нового оператора с хэшированием пароля и дефолтной ролью "staff".
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	operator := models.Operator{
		UID:          uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         "staff", // дефолтная роль при регистрации
		CreatedAt:    time.Now().UTC(),
	}
	return s.operators.RegisterOperator(ctx, operator)
}

// Login проверяет пароль оператора и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	operator, err := s.operators.GetOperatorByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(operator.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(operator.Username, operator.Role, operator.UID)
	if err != nil {
		return "", "", err
	}
	return token, operator.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию об операторе, роль и признак валидности.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.Operator, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	operator := &models.Operator{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.OperatorUID,
	}
	return operator, claims.Role, true, nil
}
