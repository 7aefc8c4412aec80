package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type WaveRepository struct {
	DB *pgxpool.Pool
}

func NewWaveRepository(db *pgxpool.Pool) *WaveRepository {
	return &WaveRepository{DB: db}
}

func (r *WaveRepository) Create(ctx context.Context, w *models.Wave) error {
	query := `
		INSERT INTO waves (name, order_week, order_day, delivery_start, delivery_end,
			goal_kind, goal_value, photo_required, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING id, active, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		w.Name, w.OrderWeek, w.OrderDay, w.DeliveryStart, w.DeliveryEnd,
		w.GoalKind, w.GoalValue, w.PhotoRequired,
	).Scan(&w.ID, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range w.Items {
		if err := r.createItem(ctx, w.ID, &w.Items[i]); err != nil {
			return err
		}
	}
	for i := range w.PhotoTags {
		if err := r.createPhotoTag(ctx, w.ID, &w.PhotoTags[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *WaveRepository) createItem(ctx context.Context, waveID int, item *models.WaveItem) error {
	query := `
		INSERT INTO wave_items (wave_id, product_id, kind, name, unit_value, target_count, target_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, current_count, current_value
	`
	item.WaveID = waveID
	return r.DB.QueryRow(ctx, query,
		waveID, item.ProductID, item.Kind, item.Name, item.UnitValue,
		item.TargetCount, item.TargetValue,
	).Scan(&item.ID, &item.CurrentCount, &item.CurrentValue)
}

func (r *WaveRepository) createPhotoTag(ctx context.Context, waveID int, tag *models.WavePhotoTag) error {
	query := `
		INSERT INTO wave_photo_tags (wave_id, tag, optional)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	tag.WaveID = waveID
	return r.DB.QueryRow(ctx, query, waveID, tag.Tag, tag.Optional).Scan(&tag.ID)
}

func (r *WaveRepository) Get(ctx context.Context, id int) (*models.Wave, error) {
	query := `
		SELECT id, name, order_week, order_day, delivery_start, delivery_end,
		       goal_kind, goal_value, photo_required, active, created_at, updated_at
		FROM waves
		WHERE id = $1
	`
	w := &models.Wave{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.Name, &w.OrderWeek, &w.OrderDay, &w.DeliveryStart, &w.DeliveryEnd,
		&w.GoalKind, &w.GoalValue, &w.PhotoRequired, &w.Active, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Items = items

	tags, err := r.listPhotoTags(ctx, id)
	if err != nil {
		return nil, err
	}
	w.PhotoTags = tags
	return w, nil
}

func (r *WaveRepository) listItems(ctx context.Context, waveID int) ([]models.WaveItem, error) {
	query := `
		SELECT id, wave_id, product_id, kind, name, unit_value,
		       target_count, target_value, current_count, current_value
		FROM wave_items
		WHERE wave_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, waveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WaveItem
	for rows.Next() {
		var it models.WaveItem
		err := rows.Scan(
			&it.ID, &it.WaveID, &it.ProductID, &it.Kind, &it.Name, &it.UnitValue,
			&it.TargetCount, &it.TargetValue, &it.CurrentCount, &it.CurrentValue,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *WaveRepository) listPhotoTags(ctx context.Context, waveID int) ([]models.WavePhotoTag, error) {
	query := `
		SELECT id, wave_id, tag, optional
		FROM wave_photo_tags
		WHERE wave_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, waveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.WavePhotoTag
	for rows.Next() {
		var t models.WavePhotoTag
		if err := rows.Scan(&t.ID, &t.WaveID, &t.Tag, &t.Optional); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *WaveRepository) List(ctx context.Context) ([]*models.Wave, error) {
	query := `
		SELECT id, name, order_week, order_day, delivery_start, delivery_end,
		       goal_kind, goal_value, photo_required, active, created_at, updated_at
		FROM waves
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waves []*models.Wave
	for rows.Next() {
		w := &models.Wave{}
		err := rows.Scan(
			&w.ID, &w.Name, &w.OrderWeek, &w.OrderDay, &w.DeliveryStart, &w.DeliveryEnd,
			&w.GoalKind, &w.GoalValue, &w.PhotoRequired, &w.Active, &w.CreatedAt, &w.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		waves = append(waves, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, w := range waves {
		items, err := r.listItems(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		w.Items = items
	}
	return waves, nil
}

func (r *WaveRepository) Update(ctx context.Context, w *models.Wave) error {
	query := `
		UPDATE waves
		SET name = $1, order_week = $2, order_day = $3, delivery_start = $4,
		    delivery_end = $5, goal_kind = $6, goal_value = $7,
		    photo_required = $8, active = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
	`
	_, err := r.DB.Exec(ctx, query,
		w.Name, w.OrderWeek, w.OrderDay, w.DeliveryStart, w.DeliveryEnd,
		w.GoalKind, w.GoalValue, w.PhotoRequired, w.Active, w.ID,
	)
	return err
}

func (r *WaveRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM waves WHERE id = $1`, id)
	return err
}

// AccumulateItem adds a submitted quantity to a wave item's running totals.
func (r *WaveRepository) AccumulateItem(ctx context.Context, itemID, count int, value float64) error {
	query := `
		UPDATE wave_items
		SET current_count = current_count + $1,
		    current_value = current_value + $2
		WHERE id = $3
	`
	_, err := r.DB.Exec(ctx, query, count, value, itemID)
	return err
}
