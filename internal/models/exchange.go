package models

import "time"

// Exchange reason codes.
const (
	ExchangeReasonOutOfStock = "out_of_stock"
	ExchangeReasonListingGap = "listing_gap"
	ExchangeReasonPlacement  = "placement"
)

// ExchangeEntry ("Vorverkauf") documents a swap of removed products for
// replacements at a market.
type ExchangeEntry struct {
	ID              int            `json:"id"`
	MarketID        int            `json:"marketId"`
	GebietsleiterID int            `json:"gebietsleiterId"`
	Reason          string         `json:"reason"`
	Removed         []ExchangeItem `json:"removed"`
	Replacement     []ExchangeItem `json:"replacement"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type ExchangeItem struct {
	ID        int     `json:"id"`
	EntryID   int     `json:"entryId"`
	Direction string  `json:"direction"` // 'removed' or 'replacement'
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type CreateExchangeRequest struct {
	MarketID    int                 `json:"marketId"`
	Reason      string              `json:"reason"`
	Removed     []ExchangeItemInput `json:"removed"`
	Replacement []ExchangeItemInput `json:"replacement"`
}

type ExchangeItemInput struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// ExchangeBalance compares removed against replacement value to suggest a
// value-balanced substitution.
type ExchangeBalance struct {
	RemovedValue     float64 `json:"removedValue"`
	ReplacementValue float64 `json:"replacementValue"`
	Delta            float64 `json:"delta"`
	Balanced         bool    `json:"balanced"`
}
