package gateway

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "paymentwall-gateway-api/services/payment/brick"
)

func refParams() map[string]interface{} {
    return map[string]interface{}{"transactionReference": "sale_42"}
}

func TestLifecycleRequestsRequireReference(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    for name, send := range map[string]func(context.Context) (Result, error){
        "void":    g.Void(nil).Send,
        "refund":  g.Refund(nil).Send,
        "capture": g.Capture(nil).Send,
        "status":  g.PurchaseStatus(nil).Send,
    } {
        _, err := send(context.Background())
        var ve *ValidationError
        require.ErrorAs(t, err, &ve, name)
        assert.Equal(t, []string{"transactionReference"}, ve.MissingFields, name)
    }
}

func TestVoidRoutesToRefund(t *testing.T) {
    proc := &mockProcessor{
        refundResult: &brick.ChargeResult{
            ID:         "sale_42",
            IsCaptured: true,
            StatusCode: 200,
            Raw:        map[string]interface{}{"id": "sale_42", "refunded": true},
        },
    }
    g := New(testConfig(), proc)

    result, err := g.Void(refParams()).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.Equal(t, "sale_42", proc.lastSaleID)
}

func TestVoidAlreadyCancelledCountsAsSuccess(t *testing.T) {
    proc := &mockProcessor{
        refundResult: &brick.ChargeResult{
            StatusCode: 200,
            Raw: map[string]interface{}{
                "error": map[string]interface{}{
                    "message": "The order is already cancelled",
                    "code":    float64(brick.CodeAlreadyCancelled),
                },
            },
        },
    }
    g := New(testConfig(), proc)

    result, err := g.Void(refParams()).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.Equal(t, "sale_42", result.TransactionReference())
}

func TestRefundDoesNotRemapAlreadyCancelled(t *testing.T) {
    proc := &mockProcessor{
        refundResult: &brick.ChargeResult{
            StatusCode: 200,
            Raw: map[string]interface{}{
                "error": map[string]interface{}{
                    "message": "The order is already cancelled",
                    "code":    float64(brick.CodeAlreadyCancelled),
                },
            },
        },
    }
    g := New(testConfig(), proc)

    result, err := g.Refund(refParams()).Send(context.Background())
    require.NoError(t, err)
    assert.False(t, result.Successful())
    assert.Equal(t, brick.CodeAlreadyCancelled, result.Code())
}

func TestCaptureSettlesAuthorization(t *testing.T) {
    proc := &mockProcessor{
        refundResult: &brick.ChargeResult{
            ID:         "sale_42",
            IsCaptured: true,
            StatusCode: 200,
            Raw:        map[string]interface{}{"id": "sale_42", "captured": true},
        },
    }
    g := New(testConfig(), proc)

    result, err := g.Capture(refParams()).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.True(t, result.Captured())
}

func TestPurchaseStatusLookup(t *testing.T) {
    proc := &mockProcessor{
        getResult: &brick.ChargeResult{
            ID:         "sale_42",
            IsCaptured: true,
            Refunded:   false,
            StatusCode: 200,
            Raw:        map[string]interface{}{"id": "sale_42", "captured": true, "amount": "9.99"},
        },
    }
    g := New(testConfig(), proc)

    result, err := g.PurchaseStatus(refParams()).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.Equal(t, "sale_42", result.TransactionReference())
    assert.Equal(t, "sale_42", proc.lastSaleID)
}

func TestLifecycleTransportFailure(t *testing.T) {
    proc := &mockProcessor{refundErr: errors.New("timeout")}
    g := New(testConfig(), proc)

    result, err := g.Refund(refParams()).Send(context.Background())
    require.NoError(t, err)
    assert.False(t, result.Successful())
    assert.Equal(t, brick.CodeCommunicationError, result.Code())
}
