package dto

// DepositRequest represents the API request for initializing a deposit
type DepositRequest struct {
	UserID uint64 `json:"userId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Amount string `json:"amount" binding:"required"`
}

// DepositResponse represents the API response for an initialized deposit
type DepositResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
}

// WithdrawalRequest represents the API request for initiating a withdrawal
type WithdrawalRequest struct {
	UserID        uint64 `json:"userId" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	BankCode      string `json:"bankCode" binding:"required"`
}

// WithdrawalResponse represents the API response for an initiated withdrawal
type WithdrawalResponse struct {
	Reference   string `json:"reference"`
	AccountName string `json:"accountName"`
	Status      string `json:"status"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	Reference  string         `json:"reference"`
	UserID     uint64         `json:"userId"`
	Type       string         `json:"type"`
	Amount     string         `json:"amount"`
	Status     string         `json:"status"`
	Settled    bool           `json:"settled"`
	RetryCount int            `json:"retryCount"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
}
