package gateway

// Result is the uniform contract callers inspect after any gateway
// operation, regardless of which wire shape the processor answered with
// and regardless of whether the failure came from validation of the
// remote call itself.
type Result interface {
    Successful() bool
    TransactionReference() string
    CardReference() string
    Message() string
    Code() int
    Captured() bool
    UnderReview() bool
    Redirect() bool
    RedirectURL() string
}

// ChargeResponse normalizes the direct-charge response family. Paymentwall
// returns errors in several different ways, so the accessors probe the
// known shapes in a fixed order.
type ChargeResponse struct {
    data        map[string]interface{}
    statusCode  int
    captured    bool
    underReview bool
}

// NewChargeResponse wraps a raw response body. statusCode is the HTTP
// status the processor answered with, or 200 for library-style calls that
// report errors in the body only.
func NewChargeResponse(data map[string]interface{}, statusCode int) *ChargeResponse {
    if data == nil {
        data = make(map[string]interface{})
    }
    return &ChargeResponse{data: data, statusCode: statusCode}
}

// NewErrorResponse builds a failed result carrying a message and code,
// used for tokenizer declines and transport failures so that callers get
// a value instead of an exception path.
func NewErrorResponse(message string, code int) *ChargeResponse {
    return NewChargeResponse(map[string]interface{}{
        "type":   "Error",
        "object": "Error",
        "error":  message,
        "code":   code,
    }, 200)
}

// Successful applies the processor's conventions in strict order: an
// HTTP-style code >= 400 always fails, an explicit success flag wins,
// any error field fails, and a body that at least carries a transaction
// reference passes. A fully ambiguous (typically empty) response is
// treated as a failure; Paymentwall answers unimplemented calls with an
// empty body.
func (r *ChargeResponse) Successful() bool {
    if r.statusCode >= 400 {
        return false
    }
    if code := r.Code(); code >= 400 {
        return false
    }
    if truthy(r.data["success"]) {
        return true
    }
    if _, ok := r.data["error"]; ok {
        return false
    }
    if r.TransactionReference() != "" {
        return true
    }
    return false
}

// TransactionReference returns the top-level charge id when present and
// falls back to the library-call shape payment.charge.order_id. Only one
// of the two shapes appears per response family.
func (r *ChargeResponse) TransactionReference() string {
    if v, ok := r.data["id"]; ok {
        return stringify(v)
    }
    if v := dig(r.data, "payment", "charge", "order_id"); v != nil {
        return stringify(v)
    }
    return ""
}

// CardReference returns the reusable card token, checking card.token
// first and then the library shape payment.card.auth_token.
func (r *ChargeResponse) CardReference() string {
    if v := dig(r.data, "card", "token"); v != nil {
        return stringify(v)
    }
    if v := dig(r.data, "payment", "card", "auth_token"); v != nil {
        return stringify(v)
    }
    return ""
}

func (r *ChargeResponse) Message() string {
    switch e := r.data["error"].(type) {
    case string:
        return e
    case map[string]interface{}:
        if m, ok := e["message"].(string); ok {
            return m
        }
    }
    return ""
}

func (r *ChargeResponse) Code() int {
    if e, ok := r.data["error"].(map[string]interface{}); ok {
        if c, ok := e["code"]; ok {
            return toInt(c)
        }
    }
    if c, ok := r.data["code"]; ok {
        return toInt(c)
    }
    return 0
}

// Captured and UnderReview are set explicitly by the request that made
// the charge, from the charge object's own state flags. They are never
// inferred from the generic response body.
func (r *ChargeResponse) Captured() bool    { return r.captured }
func (r *ChargeResponse) UnderReview() bool { return r.underReview }

func (r *ChargeResponse) SetCaptured(v bool) *ChargeResponse {
    r.captured = v
    return r
}

func (r *ChargeResponse) SetUnderReview(v bool) *ChargeResponse {
    r.underReview = v
    return r
}

func (r *ChargeResponse) Redirect() bool      { return false }
func (r *ChargeResponse) RedirectURL() string { return "" }

// Data exposes the raw response map for callers that need fields outside
// the normalized contract, such as the status query.
func (r *ChargeResponse) Data() map[string]interface{} { return r.data }

// WidgetPurchaseResponse is the redirect result family. No transaction
// reference exists yet; it only becomes known once the hosted page
// completes and the processor pings back.
type WidgetPurchaseResponse struct {
    url string
}

func NewWidgetPurchaseResponse(url string) *WidgetPurchaseResponse {
    return &WidgetPurchaseResponse{url: url}
}

func (r *WidgetPurchaseResponse) Successful() bool             { return r.url != "" }
func (r *WidgetPurchaseResponse) TransactionReference() string { return "" }
func (r *WidgetPurchaseResponse) CardReference() string        { return "" }
func (r *WidgetPurchaseResponse) Message() string              { return "" }
func (r *WidgetPurchaseResponse) Code() int                    { return 0 }
func (r *WidgetPurchaseResponse) Captured() bool               { return false }
func (r *WidgetPurchaseResponse) UnderReview() bool            { return false }
func (r *WidgetPurchaseResponse) Redirect() bool               { return true }
func (r *WidgetPurchaseResponse) RedirectURL() string          { return r.url }

// PaymentListResponse wraps the payment-systems listing. The endpoint has
// no body-level error convention, so only an HTTP-level failure code
// marks it unsuccessful.
type PaymentListResponse struct {
    systems    []map[string]interface{}
    statusCode int
}

func NewPaymentListResponse(systems []map[string]interface{}, statusCode int) *PaymentListResponse {
    return &PaymentListResponse{systems: systems, statusCode: statusCode}
}

func (r *PaymentListResponse) Successful() bool             { return r.statusCode < 400 }
func (r *PaymentListResponse) TransactionReference() string { return "" }
func (r *PaymentListResponse) CardReference() string        { return "" }
func (r *PaymentListResponse) Message() string              { return "" }
func (r *PaymentListResponse) Code() int                    { return r.statusCode }
func (r *PaymentListResponse) Captured() bool               { return false }
func (r *PaymentListResponse) UnderReview() bool            { return false }
func (r *PaymentListResponse) Redirect() bool               { return false }
func (r *PaymentListResponse) RedirectURL() string          { return "" }

// PaymentSystems lists the local payment methods available for the
// queried country.
func (r *PaymentListResponse) PaymentSystems() []map[string]interface{} { return r.systems }

func dig(data map[string]interface{}, keys ...string) interface{} {
    current := data
    for i, key := range keys {
        v, ok := current[key]
        if !ok {
            return nil
        }
        if i == len(keys)-1 {
            return v
        }
        next, ok := v.(map[string]interface{})
        if !ok {
            return nil
        }
        current = next
    }
    return nil
}

func truthy(v interface{}) bool {
    switch t := v.(type) {
    case bool:
        return t
    case string:
        return t != "" && t != "0" && t != "false"
    case int:
        return t != 0
    case float64:
        return t != 0
    default:
        return false
    }
}

func toInt(v interface{}) int {
    switch t := v.(type) {
    case int:
        return t
    case int64:
        return int(t)
    case float64:
        return int(t)
    case string:
        var n int
        for _, r := range t {
            if r < '0' || r > '9' {
                return 0
            }
            n = n*10 + int(r-'0')
        }
        return n
    default:
        return 0
    }
}
