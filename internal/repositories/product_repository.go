package repositories

import (
	"context"

	"vertrieb-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, department, kind, size, unit_price, order_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.Name, p.Department, p.Kind, p.Size, p.UnitPrice, p.OrderNumber,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range p.Lines {
		if err := r.createLine(ctx, p.ID, &p.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) createLine(ctx context.Context, productID int, line *models.ProductLine) error {
	query := `
		INSERT INTO product_lines (product_id, name, unit_value, sales_units, barcode)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	line.ProductID = productID
	return r.DB.QueryRow(ctx, query,
		productID, line.Name, line.UnitValue, line.SalesUnits, line.Barcode,
	).Scan(&line.ID)
}

func (r *ProductRepository) Get(ctx context.Context, id int) (*models.Product, error) {
	query := `
		SELECT id, name, department, kind, COALESCE(size, ''), unit_price, order_number, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	p := &models.Product{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Department, &p.Kind, &p.Size, &p.UnitPrice,
		&p.OrderNumber, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return p, nil
}

func (r *ProductRepository) listLines(ctx context.Context, productID int) ([]models.ProductLine, error) {
	query := `
		SELECT id, product_id, name, unit_value, sales_units, barcode
		FROM product_lines
		WHERE product_id = $1
		ORDER BY id
	`
	rows, err := r.DB.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.ProductLine
	for rows.Next() {
		var l models.ProductLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Name, &l.UnitValue, &l.SalesUnits, &l.Barcode); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT id, name, department, kind, COALESCE(size, ''), unit_price, order_number, created_at, updated_at
		FROM products
		ORDER BY name ASC
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		err := rows.Scan(
			&p.ID, &p.Name, &p.Department, &p.Kind, &p.Size, &p.UnitPrice,
			&p.OrderNumber, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach constituent lines for pallet/bin products.
	for _, p := range products {
		if p.Kind == models.ProductKindPallet || p.Kind == models.ProductKindBin {
			lines, err := r.listLines(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			p.Lines = lines
		}
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, department = $2, kind = $3, size = $4, unit_price = $5,
		    order_number = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
	`
	_, err := r.DB.Exec(ctx, query,
		p.Name, p.Department, p.Kind, p.Size, p.UnitPrice, p.OrderNumber, p.ID,
	)
	if err != nil {
		return err
	}

	// Replace constituent lines wholesale; edits always carry the full set.
	if _, err := r.DB.Exec(ctx, `DELETE FROM product_lines WHERE product_id = $1`, p.ID); err != nil {
		return err
	}
	for i := range p.Lines {
		if err := r.createLine(ctx, p.ID, &p.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}
