package domain

// MerchantVolume counts transactions routed through a merchant.
type MerchantVolume struct {
	MerchantID   string `json:"merchant_id"`
	MerchantName string `json:"merchant_name"`
	Count        int64  `json:"txn_count"`
}

// MerchantFailureRate captures the failed/total ratio for a merchant.
type MerchantFailureRate struct {
	MerchantID  string  `json:"merchant_id"`
	Total       int64   `json:"total_txns"`
	Failed      int64   `json:"failed_txns"`
	FailureRate float64 `json:"failure_rate"`
}

// UserAverage is the mean transaction amount for a user.
type UserAverage struct {
	UserID  string  `json:"user_id"`
	Count   int64   `json:"txn_count"`
	Average float64 `json:"avg_transaction"`
}

// DatasetSummary aggregates run-level statistics over a record set.
type DatasetSummary struct {
	Transactions    int     `json:"transactions"`
	UniqueUsers     int     `json:"unique_users"`
	UniqueMerchants int     `json:"unique_merchants"`
	Failed          int     `json:"failed"`
	FailureRate     float64 `json:"failure_rate"`
	TotalAmount     float64 `json:"total_amount"`
	AverageAmount   float64 `json:"average_amount"`
}
