package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PendingPhotoRepository struct {
	DB *pgxpool.Pool
}

func NewPendingPhotoRepository(db *pgxpool.Pool) *PendingPhotoRepository {
	return &PendingPhotoRepository{DB: db}
}

func (r *PendingPhotoRepository) Create(ctx context.Context, p *models.PendingDeliveryPhoto) error {
	query := `
		INSERT INTO pending_delivery_photos (market_id, submission_id, tag)
		VALUES ($1, $2, $3)
		RETURNING id, fulfilled, skipped, created_at
	`
	return r.DB.QueryRow(ctx, query, p.MarketID, p.SubmissionID, p.Tag).
		Scan(&p.ID, &p.Fulfilled, &p.Skipped, &p.CreatedAt)
}

// ListOpenForMarket returns photo obligations for a market that were neither
// fulfilled nor explicitly skipped.
func (r *PendingPhotoRepository) ListOpenForMarket(ctx context.Context, marketID int) ([]*models.PendingDeliveryPhoto, error) {
	query := `
		SELECT id, market_id, submission_id, tag, fulfilled, skipped, created_at, resolved_at
		FROM pending_delivery_photos
		WHERE market_id = $1 AND fulfilled = false AND skipped = false
		ORDER BY created_at ASC
	`
	rows, err := r.DB.Query(ctx, query, marketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*models.PendingDeliveryPhoto
	for rows.Next() {
		p := &models.PendingDeliveryPhoto{}
		err := rows.Scan(&p.ID, &p.MarketID, &p.SubmissionID, &p.Tag,
			&p.Fulfilled, &p.Skipped, &p.CreatedAt, &p.ResolvedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *PendingPhotoRepository) MarkFulfilled(ctx context.Context, id int) error {
	query := `
		UPDATE pending_delivery_photos
		SET fulfilled = true, resolved_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.DB.Exec(ctx, query, id)
	return err
}

func (r *PendingPhotoRepository) MarkSkipped(ctx context.Context, id int) error {
	query := `
		UPDATE pending_delivery_photos
		SET skipped = true, resolved_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.DB.Exec(ctx, query, id)
	return err
}
