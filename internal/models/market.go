package models

import "time"

// Coordinates is only populated when both latitude and longitude are set.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Market is a retail store visited by a Gebietsleiter.
type Market struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Chain           string       `json:"chain"` // retail banner, e.g. "Billa+", "Spar"
	Street          string       `json:"street"`
	PostalCode      string       `json:"postalCode"`
	City            string       `json:"city"`
	GebietsleiterID *int         `json:"gebietsleiterId,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	LastVisitDate   *time.Time   `json:"lastVisitDate,omitempty"`
	VisitFrequency  int          `json:"visitFrequency"` // target visits per cycle, defaults to 12
	CurrentVisits   int          `json:"currentVisits"`
	Completed       bool         `json:"completed"` // current cycle completion flag
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type CreateMarketRequest struct {
	Name            string   `json:"name"`
	Chain           string   `json:"chain"`
	Street          string   `json:"street"`
	PostalCode      string   `json:"postalCode"`
	City            string   `json:"city"`
	GebietsleiterID *int     `json:"gebietsleiterId,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	VisitFrequency  *int     `json:"visitFrequency,omitempty"`
}

type UpdateMarketRequest struct {
	Name            string   `json:"name"`
	Chain           string   `json:"chain"`
	Street          string   `json:"street"`
	PostalCode      string   `json:"postalCode"`
	City            string   `json:"city"`
	GebietsleiterID *int     `json:"gebietsleiterId,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	VisitFrequency  *int     `json:"visitFrequency,omitempty"`
	Completed       *bool    `json:"completed,omitempty"`
}

// ImportMarketsRequest is the batch/import variant of market creation.
type ImportMarketsRequest struct {
	Markets []map[string]interface{} `json:"markets"`
}

// Visit records a GL's counted presence at a market.
type Visit struct {
	ID              int       `json:"id"`
	MarketID        int       `json:"marketId"`
	GebietsleiterID int       `json:"gebietsleiterId"`
	VisitedAt       time.Time `json:"visitedAt"`
}
