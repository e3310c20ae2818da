package gateway

import (
    "context"
    "net/url"

    "paymentwall-gateway-api/services/payment/brick"
)

// referenceData is the payload shared by every lifecycle request that
// addresses an existing charge.
func (r *request) referenceData() (url.Values, error) {
    if err := r.validate("transactionReference"); err != nil {
        return nil, err
    }
    data := url.Values{}
    data.Set("sale_id", r.params.GetString("transactionReference"))
    return data, nil
}

func (r *request) chargeResult(charge *brick.ChargeResult) *ChargeResponse {
    resp := NewChargeResponse(charge.Raw, charge.StatusCode)
    if charge.Successful() {
        resp.SetCaptured(charge.IsCaptured)
        resp.SetUnderReview(charge.UnderReview())
    }
    return resp
}

// VoidRequest cancels a charge. The processor has no dedicated void
// operation; voids route to the refund primitive.
type VoidRequest struct {
    request
}

func (r *VoidRequest) Data() (url.Values, error) {
    return r.referenceData()
}

// Send refunds the referenced charge. A processor answer of "already
// cancelled" counts as a successful void so that repeated cancels stay
// idempotent.
func (r *VoidRequest) Send(ctx context.Context) (Result, error) {
    data, err := r.Data()
    if err != nil {
        return nil, err
    }

    charge, err := r.processor.RefundCharge(ctx, data.Get("sale_id"))
    if err != nil {
        return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
    }

    resp := r.chargeResult(charge)
    if !resp.Successful() && resp.Code() == brick.CodeAlreadyCancelled {
        return NewChargeResponse(map[string]interface{}{
            "success": true,
            "id":      data.Get("sale_id"),
        }, 200), nil
    }
    return resp, nil
}

// RefundRequest returns funds for a captured charge.
type RefundRequest struct {
    request
}

func (r *RefundRequest) Data() (url.Values, error) {
    return r.referenceData()
}

func (r *RefundRequest) Send(ctx context.Context) (Result, error) {
    data, err := r.Data()
    if err != nil {
        return nil, err
    }

    charge, err := r.processor.RefundCharge(ctx, data.Get("sale_id"))
    if err != nil {
        return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
    }
    return r.chargeResult(charge), nil
}

// CaptureRequest settles a previously authorized charge.
type CaptureRequest struct {
    request
}

func (r *CaptureRequest) Data() (url.Values, error) {
    return r.referenceData()
}

func (r *CaptureRequest) Send(ctx context.Context) (Result, error) {
    data, err := r.Data()
    if err != nil {
        return nil, err
    }

    charge, err := r.processor.CaptureCharge(ctx, data.Get("sale_id"))
    if err != nil {
        return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
    }
    return r.chargeResult(charge), nil
}

// PurchaseStatusRequest looks up the current state of a charge without
// mutating it.
type PurchaseStatusRequest struct {
    request
}

func (r *PurchaseStatusRequest) Data() (url.Values, error) {
    return r.referenceData()
}

func (r *PurchaseStatusRequest) Send(ctx context.Context) (Result, error) {
    data, err := r.Data()
    if err != nil {
        return nil, err
    }

    charge, err := r.processor.GetCharge(ctx, data.Get("sale_id"))
    if err != nil {
        return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
    }
    return r.chargeResult(charge), nil
}
