package brick

// API types, mirrored by the widget controller path each one maps to.
const (
    APIVirtualCurrency = 1
    APIDigitalGoods    = 2
    APICart            = 3
)

// Error codes the gateway layer branches on.
const (
    // CodeCommunicationError marks transport-level failures folded into
    // an error result instead of being raised to the caller.
    CodeCommunicationError = 231

    // CodeAlreadyCancelled is returned when a refund is requested for a
    // charge the processor has already cancelled. Voids remap it to a
    // successful result for idempotent-cancel semantics.
    CodeAlreadyCancelled = 3201
)

// TokenResult is the outcome of a one-time-token request. A declined
// card is data, not an error: Token stays empty and Message/Code carry
// the processor's reason.
type TokenResult struct {
    Token      string
    ExpiresIn  int
    Message    string
    Code       int
    StatusCode int
}

// Declined reports whether the processor refused to tokenize the card.
func (t *TokenResult) Declined() bool {
    return t.Token == ""
}

// ChargeResult is the outcome of a charge create/lookup/refund/capture
// call. Raw preserves the decoded body for response normalization.
type ChargeResult struct {
    ID         string
    Object     string
    Amount     string
    Currency   string
    IsCaptured bool
    Refunded   bool
    RiskStatus string
    StatusCode int
    Raw        map[string]interface{}
}

// Successful reports whether the charge itself is in a good state:
// either captured, or authorized and parked for risk review.
func (c *ChargeResult) Successful() bool {
    return c.IsCaptured || c.UnderReview()
}

// UnderReview reports whether the processor is still risk-reviewing the
// charge.
func (c *ChargeResult) UnderReview() bool {
    return c.RiskStatus == "pending"
}

// Product is a fixed-price widget line item.
type Product struct {
    ID       string
    Name     string
    Amount   string
    Currency string
}

// PaymentListResult holds the payment-systems listing for a country.
type PaymentListResult struct {
    Systems    []map[string]interface{}
    StatusCode int
}
