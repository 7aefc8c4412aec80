package repositories

import (
	"context"
	"time"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MarketRepository struct {
	DB *pgxpool.Pool
}

func NewMarketRepository(db *pgxpool.Pool) *MarketRepository {
	return &MarketRepository{DB: db}
}

const marketColumns = `
	id, name, chain, street, postal_code, city, gebietsleiter_id,
	latitude, longitude, last_visit_date, visit_frequency, current_visits,
	completed, created_at, updated_at
`

func scanMarket(row interface{ Scan(dest ...any) error }) (*models.Market, error) {
	m := &models.Market{}
	var lat, lng *float64
	err := row.Scan(
		&m.ID, &m.Name, &m.Chain, &m.Street, &m.PostalCode, &m.City,
		&m.GebietsleiterID, &lat, &lng, &m.LastVisitDate,
		&m.VisitFrequency, &m.CurrentVisits, &m.Completed,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Coordinates only when both halves are set.
	if lat != nil && lng != nil {
		m.Coordinates = &models.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	return m, nil
}

func (r *MarketRepository) Create(ctx context.Context, m *models.Market) error {
	query := `
		INSERT INTO markets (name, chain, street, postal_code, city, gebietsleiter_id,
			latitude, longitude, visit_frequency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, current_visits, completed, created_at, updated_at
	`
	var lat, lng *float64
	if m.Coordinates != nil {
		lat = &m.Coordinates.Latitude
		lng = &m.Coordinates.Longitude
	}
	return r.DB.QueryRow(ctx, query,
		m.Name, m.Chain, m.Street, m.PostalCode, m.City, m.GebietsleiterID,
		lat, lng, m.VisitFrequency,
	).Scan(&m.ID, &m.CurrentVisits, &m.Completed, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MarketRepository) Get(ctx context.Context, id int) (*models.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE id = $1`
	return scanMarket(r.DB.QueryRow(ctx, query, id))
}

// List returns all markets sorted by name ascending.
func (r *MarketRepository) List(ctx context.Context) ([]*models.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets ORDER BY name ASC`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markets []*models.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

// ListByGebietsleiter returns the markets assigned to one GL, name ascending.
func (r *MarketRepository) ListByGebietsleiter(ctx context.Context, glID int) ([]*models.Market, error) {
	query := `SELECT ` + marketColumns + ` FROM markets WHERE gebietsleiter_id = $1 ORDER BY name ASC`
	rows, err := r.DB.Query(ctx, query, glID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markets []*models.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

func (r *MarketRepository) Update(ctx context.Context, m *models.Market) error {
	query := `
		UPDATE markets
		SET name = $1, chain = $2, street = $3, postal_code = $4, city = $5,
		    gebietsleiter_id = $6, latitude = $7, longitude = $8,
		    visit_frequency = $9, completed = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $11
	`
	var lat, lng *float64
	if m.Coordinates != nil {
		lat = &m.Coordinates.Latitude
		lng = &m.Coordinates.Longitude
	}
	_, err := r.DB.Exec(ctx, query,
		m.Name, m.Chain, m.Street, m.PostalCode, m.City, m.GebietsleiterID,
		lat, lng, m.VisitFrequency, m.Completed, m.ID,
	)
	return err
}

func (r *MarketRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM markets WHERE id = $1`, id)
	return err
}

// RecordVisit bumps the visit counters and the last-visit timestamp, and
// marks the cycle completed once the frequency target is reached.
func (r *MarketRepository) RecordVisit(ctx context.Context, id int, visitedAt time.Time) error {
	query := `
		UPDATE markets
		SET last_visit_date = $1,
		    current_visits = current_visits + 1,
		    completed = (current_visits + 1 >= visit_frequency),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	_, err := r.DB.Exec(ctx, query, visitedAt, id)
	return err
}
