package domain

import "time"

// Transaction statuses recognised across the toolkit.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Transaction models a single synthetic banking event.
type Transaction struct {
	ID           string    `json:"transaction_id"`
	UserID       string    `json:"user_id"`
	MerchantID   string    `json:"merchant_id"`
	MerchantName string    `json:"merchant_name"`
	City         string    `json:"city"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}
