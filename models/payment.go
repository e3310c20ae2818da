package models

import "paymentwall-gateway-api/types"

// ChargeRequest is the API-facing body for purchase and authorize calls.
// Reference is the merchant's own idempotency handle for the attempt.
type ChargeRequest struct {
    Reference        string             `json:"reference"`
    Amount           string             `json:"amount"`
    Currency         string             `json:"currency"`
    AccountID        string             `json:"account_id"`
    Description      string             `json:"description"`
    Email            string             `json:"email,omitempty"`
    ClientIP         string             `json:"client_ip,omitempty"`
    BrowserDomain    string             `json:"browser_domain,omitempty"`
    Fingerprint      string             `json:"fingerprint,omitempty"`
    Card             *types.CreditCard  `json:"card,omitempty"`
    CardReference    string             `json:"card_reference,omitempty"`
    Token            string             `json:"token,omitempty"`
    Capture          *bool              `json:"capture,omitempty"`
    Secure           bool               `json:"secure,omitempty"`
    PackageID        string             `json:"package_id,omitempty"`
    ReturnURL        string             `json:"return_url,omitempty"`
    NotifyURL        string             `json:"notify_url,omitempty"`
    CustomParameters map[string]string  `json:"custom_parameters,omitempty"`
    CustomerData     map[string]string  `json:"customer_data,omitempty"`
    HistoryData      map[string]string  `json:"history_data,omitempty"`
}

// WidgetPurchaseRequest is the API-facing body for hosted-page purchases.
type WidgetPurchaseRequest struct {
    Reference     string `json:"reference"`
    AccountID     string `json:"account_id"`
    PackageID     string `json:"package_id"`
    Amount        string `json:"amount"`
    Currency      string `json:"currency"`
    Description   string `json:"description"`
    Email         string `json:"email"`
    ClientIP      string `json:"client_ip"`
    BrowserDomain string `json:"browser_domain"`
    CountryCode   string `json:"country_code,omitempty"`
    ReturnURL     string `json:"return_url,omitempty"`
    NotifyURL     string `json:"notify_url,omitempty"`
}

// ReferenceRequest addresses an existing charge by its sale id.
type ReferenceRequest struct {
    TransactionReference string `json:"transaction_reference"`
}
