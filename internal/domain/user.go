package domain

// User is a synthetic account holder referenced by generated transactions.
type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Merchant is a synthetic payee. Category and home city are fixed at pool
// construction; every transaction routed through the merchant inherits its city.
type Merchant struct {
	ID       string `json:"merchant_id"`
	Name     string `json:"merchant_name"`
	Category string `json:"category"`
	City     string `json:"city"`
}
