package gateway

import (
    "paymentwall-gateway-api/types"
)

// request is the common base every variant embeds: a private parameter
// bag plus the remote-operation façade. Requests are single-use from one
// logical operation at a time; concurrent callers need separate
// instances.
type request struct {
    params    *Params
    processor Processor
}

// Params exposes the bag for callers that populate a request after
// creating it through the gateway factory.
func (r *request) Params() *Params {
    return r.params
}

// validate fails with a ValidationError naming every listed field that is
// empty in the bag.
func (r *request) validate(fields ...string) error {
    var missing []string
    for _, f := range fields {
        if r.params.GetString(f) == "" {
            missing = append(missing, f)
        }
    }
    if len(missing) > 0 {
        return &ValidationError{MissingFields: missing}
    }
    return nil
}

// card returns the raw-card instrument when one was supplied.
func (r *request) card() *types.CreditCard {
    if c, ok := r.params.Get("card").(*types.CreditCard); ok {
        return c
    }
    return nil
}
