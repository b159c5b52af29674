package dto

// BalanceResponse represents the API response for a wallet balance lookup
type BalanceResponse struct {
	UserID  uint64 `json:"userId"`
	Balance string `json:"balance"`
}
