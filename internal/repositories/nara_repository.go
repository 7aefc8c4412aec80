package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NaraRepository struct {
	DB *pgxpool.Pool
}

func NewNaraRepository(db *pgxpool.Pool) *NaraRepository {
	return &NaraRepository{DB: db}
}

func (r *NaraRepository) Create(ctx context.Context, s *models.NaraSubmission) error {
	query := `
		INSERT INTO nara_submissions (market_id, gebietsleiter_id)
		VALUES ($1, $2)
		RETURNING id, submitted_at
	`
	err := r.DB.QueryRow(ctx, query, s.MarketID, s.GebietsleiterID).
		Scan(&s.ID, &s.SubmittedAt)
	if err != nil {
		return err
	}

	for i := range s.Items {
		item := &s.Items[i]
		item.SubmissionID = s.ID
		err := r.DB.QueryRow(ctx, `
			INSERT INTO nara_items (submission_id, product_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id
		`, s.ID, item.ProductID, item.Quantity).Scan(&item.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListAll returns all NARA submissions with items, ordered so callers can
// group them by (market, calendar day).
func (r *NaraRepository) ListAll(ctx context.Context) ([]*models.NaraSubmission, error) {
	query := `
		SELECT id, market_id, gebietsleiter_id, submitted_at
		FROM nara_submissions
		ORDER BY market_id, submitted_at
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.NaraSubmission
	for rows.Next() {
		s := &models.NaraSubmission{}
		if err := rows.Scan(&s.ID, &s.MarketID, &s.GebietsleiterID, &s.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range subs {
		items, err := r.listItems(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return subs, nil
}

func (r *NaraRepository) listItems(ctx context.Context, submissionID int) ([]models.NaraItem, error) {
	query := `
		SELECT id, submission_id, product_id, quantity
		FROM nara_items
		WHERE submission_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.NaraItem
	for rows.Next() {
		var it models.NaraItem
		if err := rows.Scan(&it.ID, &it.SubmissionID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
