package types

// CreditCard carries raw card data for the one-time-token path. It is
// expected to be pre-validated (Luhn, expiry) by the service layer before
// a gateway request is built.
type CreditCard struct {
    Number          string `json:"number"`
    ExpiryMonth     string `json:"exp_month"`
    ExpiryYear      string `json:"exp_year"`
    CVV             string `json:"cvv"`
    FirstName       string `json:"first_name,omitempty"`
    LastName        string `json:"last_name,omitempty"`
    Email           string `json:"email,omitempty"`
    BillingPostcode string `json:"billing_postcode,omitempty"`
    BillingCountry  string `json:"billing_country,omitempty"`
    BillingPhone    string `json:"billing_phone,omitempty"`
}

// Masked returns the card number with everything but the last four digits
// hidden, for transaction-log storage.
func (c *CreditCard) Masked() string {
    if len(c.Number) < 4 {
        return "XXXX"
    }
    return "XXXX XXXX XXXX " + c.Number[len(c.Number)-4:]
}
