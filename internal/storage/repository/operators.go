package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// RegisterOperator сохраняет нового оператора в базу данных и возвращает его UID.
func (s *Storage) RegisterOperator(ctx context.Context, operator models.Operator) (string, error) {
	const op = "storage.RegisterOperator"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO operators (uid, username, email, password_hash, role, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		operator.UID, operator.Username, operator.Email, operator.PasswordHash,
		operator.Role, operator.CreatedAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetOperatorByUsername возвращает оператора по его username.
func (s *Storage) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	const op = "storage.GetOperatorByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, role, created_at
			  FROM operators
			  WHERE username = $1`
	o := &models.Operator{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&o.UID, &o.Username, &o.Email, &o.PasswordHash,
		&o.Role, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// GetOperator возвращает оператора по его UID.
func (s *Storage) GetOperator(ctx context.Context, uid string) (*models.Operator, error) {
	const op = "storage.GetOperator"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, role, created_at
			  FROM operators
			  WHERE uid = $1`
	o := &models.Operator{}
	row := s.DB.QueryRowContext(ctx, query, uid)
	if err := row.Scan(&o.UID, &o.Username, &o.Email, &o.PasswordHash,
		&o.Role, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}
