package models

import "time"

// Product kinds. Pallets and bins are bulk merchandising units composed of
// constituent product lines and carry no top-level price.
const (
	ProductKindItem    = "item"
	ProductKindDisplay = "display"
	ProductKindPallet  = "pallet"
	ProductKindBin     = "bin"
)

// Departments (the two enumerated verticals).
const (
	DepartmentFood    = "food"
	DepartmentNonFood = "nonfood"
)

type Product struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Department  string        `json:"department"`
	Kind        string        `json:"kind"`
	Size        string        `json:"size,omitempty"` // weight/size descriptor, e.g. "150g"
	UnitPrice   float64       `json:"unitPrice"`      // zero for pallet/bin kinds
	OrderNumber *string       `json:"orderNumber,omitempty"`
	Lines       []ProductLine `json:"lines,omitempty"` // constituent products for pallet/bin
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProductLine is one constituent product of a pallet or bin.
type ProductLine struct {
	ID         int     `json:"id"`
	ProductID  int     `json:"productId"`
	Name       string  `json:"name"`
	UnitValue  float64 `json:"unitValue"`
	SalesUnits int     `json:"salesUnits"`
	Barcode    *string `json:"barcode,omitempty"`
}

type CreateProductRequest struct {
	Name        string             `json:"name"`
	Department  string             `json:"department"`
	Kind        string             `json:"kind"`
	Size        string             `json:"size"`
	UnitPrice   float64            `json:"unitPrice"`
	OrderNumber *string            `json:"orderNumber,omitempty"`
	Lines       []ProductLineInput `json:"lines,omitempty"`
}

type ProductLineInput struct {
	Name       string  `json:"name"`
	UnitValue  float64 `json:"unitValue"`
	SalesUnits int     `json:"salesUnits"`
	Barcode    *string `json:"barcode,omitempty"`
}

type UpdateProductRequest struct {
	Name        string             `json:"name"`
	Department  string             `json:"department"`
	Kind        string             `json:"kind"`
	Size        string             `json:"size"`
	UnitPrice   float64            `json:"unitPrice"`
	OrderNumber *string            `json:"orderNumber,omitempty"`
	Lines       []ProductLineInput `json:"lines,omitempty"`
}

// ImportReport summarizes a CSV/XLSX product import.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
