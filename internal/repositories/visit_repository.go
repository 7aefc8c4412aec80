package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type VisitRepository struct {
	DB *pgxpool.Pool
}

func NewVisitRepository(db *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{DB: db}
}

func (r *VisitRepository) Create(ctx context.Context, v *models.Visit) error {
	query := `
		INSERT INTO visits (market_id, gebietsleiter_id)
		VALUES ($1, $2)
		RETURNING id, visited_at
	`
	return r.DB.QueryRow(ctx, query, v.MarketID, v.GebietsleiterID).Scan(&v.ID, &v.VisitedAt)
}

func (r *VisitRepository) ListByMarket(ctx context.Context, marketID int) ([]*models.Visit, error) {
	query := `
		SELECT id, market_id, gebietsleiter_id, visited_at
		FROM visits
		WHERE market_id = $1
		ORDER BY visited_at DESC
	`
	rows, err := r.DB.Query(ctx, query, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*models.Visit
	for rows.Next() {
		v := &models.Visit{}
		if err := rows.Scan(&v.ID, &v.MarketID, &v.GebietsleiterID, &v.VisitedAt); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
