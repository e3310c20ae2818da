package gateway

import (
    "context"
    "net/url"

    "paymentwall-gateway-api/services/payment/brick"
)

// ChargeData is the assembled outbound payload of a charge-producing
// request. Card is only populated while no token exists yet; it is used
// solely to mint a one-time token and never travels with the charge.
type ChargeData struct {
    Token    string
    Card     url.Values
    Purchase url.Values
}

// PurchaseRequest builds and submits a direct charge. Authorize shares
// the same builder with captureDefault flipped, so authorization-only
// semantics are a restriction rather than a duplicated field set.
type PurchaseRequest struct {
    request
    captureDefault bool
}

// Capture reports the effective capture flag: the configured default
// when unset, an explicit false honored when the caller stored one.
func (r *PurchaseRequest) Capture() bool {
    return r.params.GetBool("capture", r.captureDefault)
}

// email resolves from the explicit parameter first, then from the card
// instrument.
func (r *PurchaseRequest) email() string {
    if v := r.params.GetString("email"); v != "" {
        return v
    }
    if c := r.card(); c != nil {
        return c.Email
    }
    return ""
}

// token resolution order: explicit cardReference, then explicit token,
// then none.
func (r *PurchaseRequest) token() string {
    if v := r.params.GetString("cardReference"); v != "" {
        return v
    }
    return r.params.GetString("token")
}

// Data validates the request and shapes the outbound payload. Site
// verification accepts either a fingerprint or the explicit
// clientIp/browserDomain pair.
func (r *PurchaseRequest) Data() (*ChargeData, error) {
    required := []string{"amount", "currency", "accountId", "description"}
    if r.params.GetString("fingerprint") == "" {
        required = append(required, "clientIp", "browserDomain")
    }
    if err := r.validate(required...); err != nil {
        return nil, err
    }

    card := r.card()
    token := r.token()
    if token == "" && card == nil {
        return nil, newValidationError("card")
    }
    if r.email() == "" {
        return nil, newValidationError("email")
    }

    purchase := url.Values{}
    purchase.Set("uid", r.params.GetString("accountId"))
    purchase.Set("amount", r.params.GetString("amount"))
    purchase.Set("currency", r.params.GetString("currency"))
    purchase.Set("description", r.params.GetString("description"))
    purchase.Set("email", r.email())

    if fp := r.params.GetString("fingerprint"); fp != "" {
        purchase.Set("fingerprint", fp)
    } else {
        purchase.Set("browser_ip", r.params.GetString("clientIp"))
        purchase.Set("browser_domain", r.params.GetString("browserDomain"))
    }

    if plan := r.params.GetString("packageId"); plan != "" {
        purchase.Set("plan", plan)
    }
    if r.Capture() {
        purchase.Set("capture", "1")
    } else {
        purchase.Set("capture", "0")
    }
    if r.params.GetBool("secure", false) {
        // Absence means "use the account default" on the processor side.
        purchase.Set("secure", "1")
    }
    if v := r.params.GetString("returnUrl"); v != "" {
        purchase.Set("success_url", v)
    }
    if v := r.params.GetString("notifyUrl"); v != "" {
        purchase.Set("pingback_url", v)
    }

    if card != nil {
        setIfPresent(purchase, "customer[firstname]", card.FirstName)
        setIfPresent(purchase, "customer[lastname]", card.LastName)
        setIfPresent(purchase, "customer[zip]", card.BillingPostcode)
        setIfPresent(purchase, "customer[country]", card.BillingCountry)
        setIfPresent(purchase, "customer[phone]", card.BillingPhone)
    }

    // Fraud-signal enrichment maps, flattened and passed through
    // unvalidated.
    flatten(purchase, "custom", r.params.GetStringMap("customParameters"))
    flatten(purchase, "customer", r.params.GetStringMap("customerData"))
    flatten(purchase, "history", r.params.GetStringMap("historyData"))

    data := &ChargeData{Token: token, Purchase: purchase}
    if token == "" {
        data.Card = url.Values{}
        data.Card.Set("card[number]", card.Number)
        data.Card.Set("card[exp_month]", card.ExpiryMonth)
        data.Card.Set("card[exp_year]", card.ExpiryYear)
        data.Card.Set("card[cvv]", card.CVV)
    }
    return data, nil
}

// Send performs tokenization when no token was supplied and then creates
// the charge. Tokenizer declines and transport failures come back as
// error results, not Go errors, so that callers have one inspection path
// for every failure origin.
func (r *PurchaseRequest) Send(ctx context.Context) (Result, error) {
    data, err := r.Data()
    if err != nil {
        return nil, err
    }

    token := data.Token
    if token == "" {
        tok, err := r.processor.CreateToken(ctx, data.Card)
        if err != nil {
            return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
        }
        if tok.Declined() {
            return NewErrorResponse(tok.Message, tok.Code), nil
        }
        token = tok.Token
    }

    data.Purchase.Set("token", token)
    charge, err := r.processor.CreateCharge(ctx, data.Purchase)
    if err != nil {
        return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
    }

    resp := NewChargeResponse(charge.Raw, charge.StatusCode)
    if charge.Successful() {
        resp.SetCaptured(charge.IsCaptured)
        resp.SetUnderReview(charge.UnderReview())
    }
    return resp, nil
}

func setIfPresent(values url.Values, key, value string) {
    if value != "" {
        values.Set(key, value)
    }
}

func flatten(values url.Values, prefix string, sub map[string]string) {
    for k, v := range sub {
        values.Set(prefix+"["+k+"]", v)
    }
}
