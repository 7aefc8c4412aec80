package models

import "time"

// Submission is the record produced by the pre-order wizard: one batched set
// of line items for a market, optionally tied to a wave. Exchange-flow
// submissions carry no wave reference.
type Submission struct {
	ID              int               `json:"id"`
	MarketID        int               `json:"marketId"`
	GebietsleiterID int               `json:"gebietsleiterId"`
	WaveID          *int              `json:"waveId,omitempty"`
	Items           []SubmissionItem  `json:"items"`
	Photos          []SubmissionPhoto `json:"photos,omitempty"`
	SubmittedAt     time.Time         `json:"submittedAt"`
}

// SubmissionItem is one persisted line; only quantity > 0 lines exist.
type SubmissionItem struct {
	ID           int      `json:"id"`
	SubmissionID int      `json:"submissionId"`
	Kind         string   `json:"kind"` // display, box, product, pallet, bin
	ItemID       int      `json:"itemId"`
	Quantity     int      `json:"quantity"`
	UnitValue    *float64 `json:"unitValue,omitempty"` // per-unit value override
}

type SubmissionPhoto struct {
	ID           int    `json:"id"`
	SubmissionID int    `json:"submissionId"`
	Tag          string `json:"tag"`
	ObjectKey    string `json:"objectKey"`
}

// PendingDeliveryPhoto is a photo obligation left over from a previous
// submission to the same market that was never fulfilled.
type PendingDeliveryPhoto struct {
	ID           int        `json:"id"`
	MarketID     int        `json:"marketId"`
	SubmissionID int        `json:"submissionId"`
	Tag          string     `json:"tag"`
	Fulfilled    bool       `json:"fulfilled"`
	Skipped      bool       `json:"skipped"`
	CreatedAt    time.Time  `json:"createdAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

// SubmissionLine is the wire shape of one candidate line handed to the
// submission service; zero-quantity lines are dropped before persisting.
type SubmissionLine struct {
	Kind      string   `json:"kind"`
	ItemID    int      `json:"itemId"`
	Quantity  int      `json:"quantity"`
	UnitValue *float64 `json:"unitValue,omitempty"`
}

type PhotoUpload struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
	Data []byte `json:"-"`
}
