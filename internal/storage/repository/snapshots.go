package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// CreateSnapshot сохраняет результат одного цикла сбора статистики.
// Сами показатели лежат в jsonb, состав метрик может меняться без
// миграций.
func (s *Storage) CreateSnapshot(ctx context.Context, stats models.AdminStats) (int, error) {
	const op = "storage.CreateSnapshot"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO stats_snapshots (stats, collected_at)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, payload, stats.CollectedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSnapshots возвращает последние limit снапшотов, свежие первыми.
func (s *Storage) ListSnapshots(ctx context.Context, limit int) ([]models.StatsSnapshot, error) {
	const op = "storage.ListSnapshots"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, stats, collected_at
			  FROM stats_snapshots
			  ORDER BY collected_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var snapshots []models.StatsSnapshot
	for rows.Next() {
		var (
			snap    models.StatsSnapshot
			payload []byte
			at      time.Time
		)
		if err := rows.Scan(&snap.ID, &payload, &at); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(payload, &snap.Stats); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		snap.CollectedAt = at
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snapshots, nil
}
