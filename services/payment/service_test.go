package payment

import (
    "context"
    "net/url"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "paymentwall-gateway-api/gateway"
    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/services/payment/brick"
    "paymentwall-gateway-api/types"
)

type stubProcessor struct {
    lastPurchase url.Values
}

func (s *stubProcessor) CreateToken(ctx context.Context, card url.Values) (*brick.TokenResult, error) {
    return &brick.TokenResult{Token: "ot_abc"}, nil
}

func (s *stubProcessor) CreateCharge(ctx context.Context, purchase url.Values) (*brick.ChargeResult, error) {
    s.lastPurchase = purchase
    return &brick.ChargeResult{
        ID:         "sale_1",
        IsCaptured: true,
        StatusCode: 200,
        Raw:        map[string]interface{}{"id": "sale_1", "captured": true},
    }, nil
}

func (s *stubProcessor) GetCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error) {
    return &brick.ChargeResult{ID: saleID, IsCaptured: true, StatusCode: 200, Raw: map[string]interface{}{"id": saleID}}, nil
}

func (s *stubProcessor) RefundCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error) {
    return &brick.ChargeResult{ID: saleID, IsCaptured: true, StatusCode: 200, Raw: map[string]interface{}{"id": saleID}}, nil
}

func (s *stubProcessor) CaptureCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error) {
    return &brick.ChargeResult{ID: saleID, IsCaptured: true, StatusCode: 200, Raw: map[string]interface{}{"id": saleID}}, nil
}

func (s *stubProcessor) BuildWidgetURL(userID, widgetCode string, products []brick.Product, extra url.Values) (string, error) {
    return "https://example.com/widget", nil
}

func (s *stubProcessor) ListPaymentSystems(ctx context.Context, query url.Values) (*brick.PaymentListResult, error) {
    return &brick.PaymentListResult{StatusCode: 200}, nil
}

func testService() (*Service, *stubProcessor) {
    proc := &stubProcessor{}
    svc := NewPaymentServiceWith(gateway.Config{
        APIType:    brick.APIDigitalGoods,
        PublicKey:  "pub",
        PrivateKey: "priv",
        WidgetKey:  "p1_1",
    }, proc)
    return svc, proc
}

func validChargeRequest() *models.ChargeRequest {
    return &models.ChargeRequest{
        Reference:     "ord-1",
        Amount:        "9.99",
        Currency:      "USD",
        AccountID:     "user1",
        Description:   "Gold package",
        ClientIP:      "203.0.113.5",
        BrowserDomain: "shop.example.com",
        Card: &types.CreditCard{
            Number:      "4242424242424242",
            ExpiryMonth: "12",
            ExpiryYear:  "2030",
            CVV:         "123",
            Email:       "ada@example.com",
        },
    }
}

func TestPurchaseRejectsInvalidCardBeforeGateway(t *testing.T) {
    svc, proc := testService()

    req := validChargeRequest()
    req.Card.Number = "1234567890123456"

    _, err := svc.Purchase(context.Background(), req)
    require.Error(t, err)
    assert.Contains(t, err.Error(), "invalid card data")
    assert.Nil(t, proc.lastPurchase)
}

func TestPurchaseSendsCaptureFlag(t *testing.T) {
    svc, proc := testService()

    result, err := svc.Purchase(context.Background(), validChargeRequest())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.Equal(t, "1", proc.lastPurchase.Get("capture"))
}

func TestAuthorizeSendsCaptureZero(t *testing.T) {
    svc, proc := testService()

    result, err := svc.Authorize(context.Background(), validChargeRequest())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.Equal(t, "0", proc.lastPurchase.Get("capture"))
}

func TestExplicitCaptureFalseOnPurchase(t *testing.T) {
    svc, proc := testService()

    req := validChargeRequest()
    capture := false
    req.Capture = &capture

    _, err := svc.Purchase(context.Background(), req)
    require.NoError(t, err)
    assert.Equal(t, "0", proc.lastPurchase.Get("capture"))
}

func TestValidateCard(t *testing.T) {
    svc, _ := testService()

    good := &types.CreditCard{Number: "4242424242424242", ExpiryMonth: "12", ExpiryYear: "2030", CVV: "123"}
    assert.True(t, svc.ValidateCard(good))

    badLuhn := &types.CreditCard{Number: "4242424242424241", ExpiryMonth: "12", ExpiryYear: "2030", CVV: "123"}
    assert.False(t, svc.ValidateCard(badLuhn))

    expired := &types.CreditCard{Number: "4242424242424242", ExpiryMonth: "01", ExpiryYear: "2020", CVV: "123"}
    assert.False(t, svc.ValidateCard(expired))

    shortCVV := &types.CreditCard{Number: "4242424242424242", ExpiryMonth: "12", ExpiryYear: "2030", CVV: "12"}
    assert.False(t, svc.ValidateCard(shortCVV))

    shortNumber := &types.CreditCard{Number: "42424242", ExpiryMonth: "12", ExpiryYear: "2030", CVV: "123"}
    assert.False(t, svc.ValidateCard(shortNumber))
}

func TestValidateLuhn(t *testing.T) {
    assert.True(t, validateLuhn("4242424242424242"))
    assert.True(t, validateLuhn("4000000000000002"))
    assert.False(t, validateLuhn("4242424242424243"))
    assert.False(t, validateLuhn("42424242424242ab"))
}

func TestChargeParamsDropsEmptyOptionals(t *testing.T) {
    req := validChargeRequest()
    req.Email = ""
    req.Fingerprint = ""

    params := chargeParams(req)
    _, hasEmail := params["email"]
    _, hasFingerprint := params["fingerprint"]
    assert.False(t, hasEmail)
    assert.False(t, hasFingerprint)
    assert.Equal(t, "9.99", params["amount"])
}

func TestChargeParamsCaptureOnlyWhenSet(t *testing.T) {
    req := validChargeRequest()
    params := chargeParams(req)
    _, hasCapture := params["capture"]
    assert.False(t, hasCapture)

    capture := true
    req.Capture = &capture
    params = chargeParams(req)
    assert.Equal(t, true, params["capture"])
}

func TestWidgetPurchaseThroughService(t *testing.T) {
    svc, _ := testService()

    result, err := svc.WidgetPurchase(context.Background(), &models.WidgetPurchaseRequest{
        Reference:     "ord-2",
        AccountID:     "user1",
        PackageID:     "gold",
        Amount:        "9.99",
        Currency:      "USD",
        Description:   "Gold package",
        Email:         "ada@example.com",
        ClientIP:      "203.0.113.5",
        BrowserDomain: "shop.example.com",
    })
    require.NoError(t, err)
    assert.True(t, result.Redirect())
    assert.Equal(t, "https://example.com/widget", result.RedirectURL())
}
