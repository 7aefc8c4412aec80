package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ExchangeRepository struct {
	DB *pgxpool.Pool
}

func NewExchangeRepository(db *pgxpool.Pool) *ExchangeRepository {
	return &ExchangeRepository{DB: db}
}

func (r *ExchangeRepository) Create(ctx context.Context, e *models.ExchangeEntry) error {
	query := `
		INSERT INTO exchange_entries (market_id, gebietsleiter_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, e.MarketID, e.GebietsleiterID, e.Reason).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return err
	}

	for i := range e.Removed {
		if err := r.createItem(ctx, e.ID, "removed", &e.Removed[i]); err != nil {
			return err
		}
	}
	for i := range e.Replacement {
		if err := r.createItem(ctx, e.ID, "replacement", &e.Replacement[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExchangeRepository) createItem(ctx context.Context, entryID int, direction string, item *models.ExchangeItem) error {
	query := `
		INSERT INTO exchange_items (entry_id, direction, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	item.EntryID = entryID
	item.Direction = direction
	return r.DB.QueryRow(ctx, query, entryID, direction, item.Name, item.Quantity, item.UnitPrice).
		Scan(&item.ID)
}

func (r *ExchangeRepository) Get(ctx context.Context, id int) (*models.ExchangeEntry, error) {
	query := `
		SELECT id, market_id, gebietsleiter_id, reason, created_at
		FROM exchange_entries
		WHERE id = $1
	`
	e := &models.ExchangeEntry{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.MarketID, &e.GebietsleiterID, &e.Reason, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, r.attachItems(ctx, e)
}

func (r *ExchangeRepository) attachItems(ctx context.Context, e *models.ExchangeEntry) error {
	query := `
		SELECT id, entry_id, direction, name, quantity, unit_price
		FROM exchange_items
		WHERE entry_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.ExchangeItem
		if err := rows.Scan(&it.ID, &it.EntryID, &it.Direction, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return err
		}
		if it.Direction == "removed" {
			e.Removed = append(e.Removed, it)
		} else {
			e.Replacement = append(e.Replacement, it)
		}
	}
	return rows.Err()
}

func (r *ExchangeRepository) ListByGebietsleiter(ctx context.Context, glID int) ([]*models.ExchangeEntry, error) {
	query := `
		SELECT id, market_id, gebietsleiter_id, reason, created_at
		FROM exchange_entries
		WHERE gebietsleiter_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(ctx, query, glID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ExchangeEntry
	for rows.Next() {
		e := &models.ExchangeEntry{}
		if err := rows.Scan(&e.ID, &e.MarketID, &e.GebietsleiterID, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		if err := r.attachItems(ctx, e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *ExchangeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM exchange_entries WHERE id = $1`, id)
	return err
}
