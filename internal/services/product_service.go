package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vertrieb-backend/internal/cache"
	"vertrieb-backend/internal/invalidation"
	"vertrieb-backend/internal/mapper"
	"vertrieb-backend/internal/models"
	"vertrieb-backend/internal/repositories"
)

type ProductService struct {
	Repo        *repositories.ProductRepository
	Broadcaster *invalidation.Broadcaster
}

func NewProductService(repo *repositories.ProductRepository, broadcaster *invalidation.Broadcaster) *ProductService {
	return &ProductService{Repo: repo, Broadcaster: broadcaster}
}

func validKind(kind string) bool {
	switch kind {
	case models.ProductKindItem, models.ProductKindDisplay, models.ProductKindPallet, models.ProductKindBin:
		return true
	}
	return false
}

func validDepartment(dep string) bool {
	return dep == models.DepartmentFood || dep == models.DepartmentNonFood
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, errors.New("product name is required")
	}
	kind := req.Kind
	if kind == "" {
		kind = models.ProductKindItem
	}
	if !validKind(kind) {
		return nil, errors.New("invalid product kind")
	}
	if !validDepartment(req.Department) {
		return nil, errors.New("invalid department")
	}

	p := &models.Product{
		Name:        req.Name,
		Department:  req.Department,
		Kind:        kind,
		Size:        req.Size,
		UnitPrice:   req.UnitPrice,
		OrderNumber: req.OrderNumber,
	}
	if kind == models.ProductKindPallet || kind == models.ProductKindBin {
		// bulk units price through their constituent lines only
		p.UnitPrice = 0
		if len(req.Lines) == 0 {
			return nil, errors.New("pallet and bin products need at least one constituent line")
		}
		for _, in := range req.Lines {
			p.Lines = append(p.Lines, models.ProductLine{
				Name:       in.Name,
				UnitValue:  in.UnitValue,
				SalesUnits: in.SalesUnits,
				Barcode:    in.Barcode,
			})
		}
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	if data, ok := cache.GetCached(ctx, productListKey); ok {
		var products []*models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}
	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(products); err == nil {
		cache.SetCached(ctx, productListKey, data, listCacheTTL)
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id int, req models.UpdateProductRequest) (*models.Product, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Department != "" {
		if !validDepartment(req.Department) {
			return nil, errors.New("invalid department")
		}
		p.Department = req.Department
	}
	if req.Kind != "" {
		if !validKind(req.Kind) {
			return nil, errors.New("invalid product kind")
		}
		p.Kind = req.Kind
	}
	if req.Size != "" {
		p.Size = req.Size
	}
	p.UnitPrice = req.UnitPrice
	if req.OrderNumber != nil {
		p.OrderNumber = req.OrderNumber
	}
	if req.Lines != nil {
		p.Lines = p.Lines[:0]
		for _, in := range req.Lines {
			p.Lines = append(p.Lines, models.ProductLine{
				Name:       in.Name,
				UnitValue:  in.UnitValue,
				SalesUnits: in.SalesUnits,
				Barcode:    in.Barcode,
			})
		}
	}
	if p.Kind == models.ProductKindPallet || p.Kind == models.ProductKindBin {
		p.UnitPrice = 0
		if len(p.Lines) == 0 {
			return nil, errors.New("pallet and bin products need at least one constituent line")
		}
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Import creates products in bulk from loosely typed rows, typically parsed
// out of a CSV or XLSX catalog upload. Rows run through the declarative
// field table; rows without a name or with an unknown department are
// reported and skipped.
func (s *ProductService) Import(ctx context.Context, rows []map[string]interface{}) (*models.ImportReport, error) {
	report := &models.ImportReport{}
	for i, raw := range rows {
		row := mapper.ProductFields.ToRow(raw)
		domain := mapper.ProductFields.ToDomain(row)

		name, _ := domain["name"].(string)
		if name == "" {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: missing name", i+1))
			continue
		}
		dep, _ := domain["department"].(string)
		if !validDepartment(dep) {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: invalid department %q", i+1, dep))
			continue
		}
		kind, _ := domain["kind"].(string)
		if !validKind(kind) {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: invalid kind %q", i+1, kind))
			continue
		}

		p := &models.Product{Name: name, Department: dep, Kind: kind}
		p.Size, _ = domain["size"].(string)
		if v, ok := numField(domain, "unitPrice"); ok {
			p.UnitPrice = v
		}
		if on, ok := domain["orderNumber"].(string); ok && on != "" {
			p.OrderNumber = &on
		}
		if kind == models.ProductKindPallet || kind == models.ProductKindBin {
			p.UnitPrice = 0
		}

		if err := s.Repo.Create(ctx, p); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		report.Imported++
	}
	if report.Imported > 0 {
		s.invalidate(ctx)
	}
	return report, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	s.Broadcaster.Invalidate(ctx, invalidation.TopicProducts)
}
