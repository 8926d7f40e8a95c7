package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// ErrReceiptNotFound возвращается, если квитанция отсутствует в базе.
var ErrReceiptNotFound = errors.New("receipt not found")

// CreateReceipt вставляет новую квитанцию и возвращает её ID.
func (s *Storage) CreateReceipt(ctx context.Context, receipt models.Receipt) (int, error) {
	const op = "storage.CreateReceipt"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO receipts (number, subscription_id, email, amount, plot_ids, issued_by, issued_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		receipt.Number, receipt.SubscriptionID, receipt.Email, receipt.Amount,
		receipt.PlotIDs, receipt.IssuedBy, receipt.IssuedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetReceiptByNumber возвращает квитанцию по её номеру.
func (s *Storage) GetReceiptByNumber(ctx context.Context, number string) (*models.Receipt, error) {
	const op = "storage.GetReceiptByNumber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, number, subscription_id, email, amount, plot_ids, issued_by, issued_at
			  FROM receipts
			  WHERE number = $1`
	r := &models.Receipt{}
	row := s.DB.QueryRowContext(ctx, query, number)
	if err := row.Scan(&r.ID, &r.Number, &r.SubscriptionID, &r.Email,
		&r.Amount, &r.PlotIDs, &r.IssuedBy, &r.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrReceiptNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ListReceiptsByEmail возвращает квитанции пользователя, свежие первыми.
func (s *Storage) ListReceiptsByEmail(ctx context.Context, email string) ([]models.Receipt, error) {
	const op = "storage.ListReceiptsByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, number, subscription_id, email, amount, plot_ids, issued_by, issued_at
			  FROM receipts
			  WHERE email = $1
			  ORDER BY issued_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var receipts []models.Receipt
	for rows.Next() {
		var r models.Receipt
		if err := rows.Scan(&r.ID, &r.Number, &r.SubscriptionID, &r.Email,
			&r.Amount, &r.PlotIDs, &r.IssuedBy, &r.IssuedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return receipts, nil
}
