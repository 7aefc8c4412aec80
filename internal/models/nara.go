package models

import "time"

// NaraSubmission is an incentive-program product submission for one market.
type NaraSubmission struct {
	ID              int        `json:"id"`
	MarketID        int        `json:"marketId"`
	GebietsleiterID int        `json:"gebietsleiterId"`
	Items           []NaraItem `json:"items"`
	SubmittedAt     time.Time  `json:"submittedAt"`
}

type NaraItem struct {
	ID           int `json:"id"`
	SubmissionID int `json:"submissionId"`
	ProductID    int `json:"productId"`
	Quantity     int `json:"quantity"`
}

type CreateNaraRequest struct {
	MarketID int             `json:"marketId"`
	Items    []NaraItemInput `json:"items"`
}

type NaraItemInput struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// NaraGroup aggregates all submissions of one market on one calendar day,
// summing quantities per product across submissions.
type NaraGroup struct {
	MarketID   int         `json:"marketId"`
	MarketName string      `json:"marketName"`
	Day        string      `json:"day"` // YYYY-MM-DD
	Quantities map[int]int `json:"quantities"`
	Total      int         `json:"total"`
}
