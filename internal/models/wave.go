package models

import "time"

// Goal kinds for a wave.
const (
	GoalKindPercent  = "percent"  // percentage of target
	GoalKindAbsolute = "absolute" // absolute currency value
)

// Wave item collection kinds.
const (
	WaveItemDisplay = "display"
	WaveItemBox     = "box"
	WaveItemProduct = "product"
	WaveItemPallet  = "pallet"
	WaveItemBin     = "bin"
)

// Wave ("Welle") is a time-boxed pre-order campaign.
type Wave struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"` // e.g. "KW48-49"
	OrderWeek     string         `json:"orderWeek"`
	OrderDay      string         `json:"orderDay"`
	DeliveryStart *time.Time     `json:"deliveryStart,omitempty"`
	DeliveryEnd   *time.Time     `json:"deliveryEnd,omitempty"`
	GoalKind      string         `json:"goalKind"`
	GoalValue     float64        `json:"goalValue"`
	PhotoRequired bool           `json:"photoRequired"`
	PhotoTags     []WavePhotoTag `json:"photoTags,omitempty"`
	Items         []WaveItem     `json:"items,omitempty"`
	Active        bool           `json:"active"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// WaveItem is one item collection of a wave with its target and running total.
type WaveItem struct {
	ID           int     `json:"id"`
	WaveID       int     `json:"waveId"`
	ProductID    *int    `json:"productId,omitempty"`
	Kind         string  `json:"kind"`
	Name         string  `json:"name"`
	UnitValue    float64 `json:"unitValue"`
	TargetCount  int     `json:"targetCount"`
	TargetValue  float64 `json:"targetValue"`
	CurrentCount int     `json:"currentCount"`
	CurrentValue float64 `json:"currentValue"`
}

type WavePhotoTag struct {
	ID       int    `json:"id"`
	WaveID   int    `json:"waveId"`
	Tag      string `json:"tag"`
	Optional bool   `json:"optional"`
}

type CreateWaveRequest struct {
	Name          string           `json:"name"`
	OrderWeek     string           `json:"orderWeek"`
	OrderDay      string           `json:"orderDay"`
	DeliveryStart *time.Time       `json:"deliveryStart,omitempty"`
	DeliveryEnd   *time.Time       `json:"deliveryEnd,omitempty"`
	GoalKind      string           `json:"goalKind"`
	GoalValue     float64          `json:"goalValue"`
	PhotoRequired bool             `json:"photoRequired"`
	PhotoTags     []WavePhotoTag   `json:"photoTags,omitempty"`
	Items         []CreateWaveItem `json:"items"`
}

type CreateWaveItem struct {
	ProductID   *int    `json:"productId,omitempty"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	UnitValue   float64 `json:"unitValue"`
	TargetCount int     `json:"targetCount"`
	TargetValue float64 `json:"targetValue"`
}

type UpdateWaveRequest struct {
	Name          string     `json:"name"`
	OrderWeek     string     `json:"orderWeek"`
	OrderDay      string     `json:"orderDay"`
	DeliveryStart *time.Time `json:"deliveryStart,omitempty"`
	DeliveryEnd   *time.Time `json:"deliveryEnd,omitempty"`
	GoalKind      string     `json:"goalKind"`
	GoalValue     float64    `json:"goalValue"`
	PhotoRequired bool       `json:"photoRequired"`
	Active        *bool      `json:"active,omitempty"`
}

// WaveProgress is the derived goal progress for a wave.
type WaveProgress struct {
	WaveID       int     `json:"waveId"`
	GoalKind     string  `json:"goalKind"`
	GoalValue    float64 `json:"goalValue"`
	CurrentValue float64 `json:"currentValue"`
	Percent      float64 `json:"percent"`
}
