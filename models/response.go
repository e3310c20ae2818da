package models

type APIResponse struct {
    Status  string      `json:"status"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

// TransactionResponse is the JSON projection of a normalized gateway
// result.
type TransactionResponse struct {
    Success              bool   `json:"success"`
    TransactionReference string `json:"transaction_reference,omitempty"`
    CardReference        string `json:"card_reference,omitempty"`
    Message              string `json:"message,omitempty"`
    Code                 int    `json:"code,omitempty"`
    Captured             bool   `json:"captured,omitempty"`
    UnderReview          bool   `json:"under_review,omitempty"`
    Redirect             bool   `json:"redirect,omitempty"`
    RedirectURL          string `json:"redirect_url,omitempty"`
}

// TransactionRecord is one row of the transaction log.
type TransactionRecord struct {
    ID        string `json:"id"`
    Reference string `json:"reference"`
    SaleID    string `json:"sale_id"`
    Operation string `json:"operation"`
    Amount    string `json:"amount"`
    Currency  string `json:"currency"`
    Status    string `json:"status"`
    Message   string `json:"message,omitempty"`
}
