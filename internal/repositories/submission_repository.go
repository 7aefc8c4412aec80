package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubmissionRepository struct {
	DB *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// Create persists the submission and its full line-item batch in one pass.
// Callers must pass only quantity > 0 lines.
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (market_id, gebietsleiter_id, wave_id)
		VALUES ($1, $2, $3)
		RETURNING id, submitted_at
	`
	err := r.DB.QueryRow(ctx, query, s.MarketID, s.GebietsleiterID, s.WaveID).
		Scan(&s.ID, &s.SubmittedAt)
	if err != nil {
		return err
	}

	for i := range s.Items {
		item := &s.Items[i]
		item.SubmissionID = s.ID
		err := r.DB.QueryRow(ctx, `
			INSERT INTO submission_items (submission_id, kind, item_id, quantity, unit_value)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, s.ID, item.Kind, item.ItemID, item.Quantity, item.UnitValue).Scan(&item.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SubmissionRepository) AddPhoto(ctx context.Context, photo *models.SubmissionPhoto) error {
	query := `
		INSERT INTO submission_photos (submission_id, tag, object_key)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRow(ctx, query, photo.SubmissionID, photo.Tag, photo.ObjectKey).Scan(&photo.ID)
}

func (r *SubmissionRepository) Get(ctx context.Context, id int) (*models.Submission, error) {
	query := `
		SELECT id, market_id, gebietsleiter_id, wave_id, submitted_at
		FROM submissions
		WHERE id = $1
	`
	s := &models.Submission{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.MarketID, &s.GebietsleiterID, &s.WaveID, &s.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (r *SubmissionRepository) listItems(ctx context.Context, submissionID int) ([]models.SubmissionItem, error) {
	query := `
		SELECT id, submission_id, kind, item_id, quantity, unit_value
		FROM submission_items
		WHERE submission_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SubmissionItem
	for rows.Next() {
		var it models.SubmissionItem
		if err := rows.Scan(&it.ID, &it.SubmissionID, &it.Kind, &it.ItemID, &it.Quantity, &it.UnitValue); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByGebietsleiter returns all submissions of one GL, newest first.
func (r *SubmissionRepository) ListByGebietsleiter(ctx context.Context, glID int) ([]*models.Submission, error) {
	query := `
		SELECT id, market_id, gebietsleiter_id, wave_id, submitted_at
		FROM submissions
		WHERE gebietsleiter_id = $1
		ORDER BY submitted_at DESC
	`
	rows, err := r.DB.Query(ctx, query, glID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		s := &models.Submission{}
		if err := rows.Scan(&s.ID, &s.MarketID, &s.GebietsleiterID, &s.WaveID, &s.SubmittedAt); err != nil {
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
