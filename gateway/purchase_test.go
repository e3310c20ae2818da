package gateway

import (
    "context"
    "errors"
    "net/url"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "paymentwall-gateway-api/services/payment/brick"
    "paymentwall-gateway-api/types"
)

// mockProcessor records the payloads it receives and answers with canned
// results, standing in for the real API client.
type mockProcessor struct {
    tokenResult  *brick.TokenResult
    tokenErr     error
    chargeResult *brick.ChargeResult
    chargeErr    error
    refundResult *brick.ChargeResult
    refundErr    error
    getResult    *brick.ChargeResult
    getErr       error
    listResult   *brick.PaymentListResult
    listErr      error
    widgetURL    string
    widgetErr    error

    lastCard     url.Values
    lastPurchase url.Values
    lastSaleID   string
    lastQuery    url.Values
}

func (m *mockProcessor) CreateToken(ctx context.Context, card url.Values) (*brick.TokenResult, error) {
    m.lastCard = card
    return m.tokenResult, m.tokenErr
}

func (m *mockProcessor) CreateCharge(ctx context.Context, purchase url.Values) (*brick.ChargeResult, error) {
    m.lastPurchase = purchase
    return m.chargeResult, m.chargeErr
}

func (m *mockProcessor) GetCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error) {
    m.lastSaleID = saleID
    return m.getResult, m.getErr
}

func (m *mockProcessor) RefundCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error) {
    m.lastSaleID = saleID
    return m.refundResult, m.refundErr
}

func (m *mockProcessor) CaptureCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error) {
    m.lastSaleID = saleID
    return m.refundResult, m.refundErr
}

func (m *mockProcessor) BuildWidgetURL(userID, widgetCode string, products []brick.Product, extra url.Values) (string, error) {
    return m.widgetURL, m.widgetErr
}

func (m *mockProcessor) ListPaymentSystems(ctx context.Context, query url.Values) (*brick.PaymentListResult, error) {
    m.lastQuery = query
    return m.listResult, m.listErr
}

func testConfig() Config {
    return Config{
        APIType:     brick.APIDigitalGoods,
        PublicKey:   "pub",
        PrivateKey:  "priv",
        WidgetKey:   "p1_1",
        SignVersion: 2,
        TestMode:    true,
    }
}

func testCard() *types.CreditCard {
    return &types.CreditCard{
        Number:      "4242424242424242",
        ExpiryMonth: "12",
        ExpiryYear:  "2030",
        CVV:         "123",
        FirstName:   "Ada",
        LastName:    "Lovelace",
        Email:       "ada@example.com",
    }
}

func purchaseParams() map[string]interface{} {
    return map[string]interface{}{
        "amount":        "9.99",
        "currency":      "USD",
        "accountId":     "user1",
        "description":   "Gold package",
        "clientIp":      "203.0.113.5",
        "browserDomain": "shop.example.com",
        "card":          testCard(),
    }
}

func TestPurchaseDataRequiresCoreFields(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    _, err := g.Purchase(map[string]interface{}{}).Data()
    require.Error(t, err)

    var ve *ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Contains(t, ve.MissingFields, "amount")
    assert.Contains(t, ve.MissingFields, "currency")
    assert.Contains(t, ve.MissingFields, "accountId")
    assert.Contains(t, ve.MissingFields, "description")
    assert.Contains(t, ve.MissingFields, "clientIp")
    assert.Contains(t, ve.MissingFields, "browserDomain")
}

func TestPurchaseDataFingerprintReplacesIPAndDomain(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    params := purchaseParams()
    delete(params, "clientIp")
    delete(params, "browserDomain")
    params["fingerprint"] = "fp-abc123"

    data, err := g.Purchase(params).Data()
    require.NoError(t, err)
    assert.Equal(t, "fp-abc123", data.Purchase.Get("fingerprint"))
    assert.Empty(t, data.Purchase.Get("browser_ip"))
    assert.Empty(t, data.Purchase.Get("browser_domain"))
}

func TestPurchaseDataRequiresInstrument(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    params := purchaseParams()
    delete(params, "card")

    _, err := g.Purchase(params).Data()
    var ve *ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Equal(t, []string{"card"}, ve.MissingFields)
}

func TestPurchaseDataEmailFallsBackToCard(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    data, err := g.Purchase(purchaseParams()).Data()
    require.NoError(t, err)
    assert.Equal(t, "ada@example.com", data.Purchase.Get("email"))
}

func TestPurchaseDataEmailMissingEntirely(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    params := purchaseParams()
    card := testCard()
    card.Email = ""
    params["card"] = card

    _, err := g.Purchase(params).Data()
    var ve *ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Equal(t, []string{"email"}, ve.MissingFields)
}

func TestPurchaseCapturesByDefault(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    data, err := g.Purchase(purchaseParams()).Data()
    require.NoError(t, err)
    assert.Equal(t, "1", data.Purchase.Get("capture"))
}

func TestAuthorizeDefersCaptureByDefault(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    data, err := g.Authorize(purchaseParams()).Data()
    require.NoError(t, err)
    assert.Equal(t, "0", data.Purchase.Get("capture"))
}

func TestExplicitCaptureFalseOverridesPurchaseDefault(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    params := purchaseParams()
    params["capture"] = false

    data, err := g.Purchase(params).Data()
    require.NoError(t, err)
    assert.Equal(t, "0", data.Purchase.Get("capture"))
}

func TestPurchaseCardSubMapOnlyWithoutToken(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    data, err := g.Purchase(purchaseParams()).Data()
    require.NoError(t, err)
    require.NotNil(t, data.Card)
    assert.Equal(t, "4242424242424242", data.Card.Get("card[number]"))
    assert.Equal(t, "12", data.Card.Get("card[exp_month]"))
    assert.Equal(t, "2030", data.Card.Get("card[exp_year]"))
    assert.Equal(t, "123", data.Card.Get("card[cvv]"))

    withToken := purchaseParams()
    withToken["token"] = "ot_onetime"
    data, err = g.Purchase(withToken).Data()
    require.NoError(t, err)
    assert.Nil(t, data.Card)
    assert.Equal(t, "ot_onetime", data.Token)
}

func TestPurchaseCardReferencePreferredOverToken(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    params := purchaseParams()
    params["token"] = "ot_onetime"
    params["cardReference"] = "auth_stored"

    data, err := g.Purchase(params).Data()
    require.NoError(t, err)
    assert.Equal(t, "auth_stored", data.Token)
}

func TestPurchaseDataFraudMapsFlattened(t *testing.T) {
    g := New(testConfig(), &mockProcessor{})

    params := purchaseParams()
    params["customParameters"] = map[string]string{"order_ref": "A-77"}
    params["customerData"] = map[string]string{"city": "Lisbon"}
    params["historyData"] = map[string]string{"registration_date": "1480000000"}

    data, err := g.Purchase(params).Data()
    require.NoError(t, err)
    assert.Equal(t, "A-77", data.Purchase.Get("custom[order_ref]"))
    assert.Equal(t, "Lisbon", data.Purchase.Get("customer[city]"))
    assert.Equal(t, "1480000000", data.Purchase.Get("history[registration_date]"))
}

func TestPurchaseSendTokenizesThenCharges(t *testing.T) {
    proc := &mockProcessor{
        tokenResult: &brick.TokenResult{Token: "ot_fresh", ExpiresIn: 600},
        chargeResult: &brick.ChargeResult{
            ID:         "sale_42",
            IsCaptured: true,
            StatusCode: 200,
            Raw: map[string]interface{}{
                "id":       "sale_42",
                "object":   "charge",
                "captured": true,
            },
        },
    }
    g := New(testConfig(), proc)

    result, err := g.Purchase(purchaseParams()).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.True(t, result.Captured())
    assert.False(t, result.UnderReview())
    assert.Equal(t, "sale_42", result.TransactionReference())
    assert.Equal(t, "ot_fresh", proc.lastPurchase.Get("token"))
    assert.Equal(t, "4242424242424242", proc.lastCard.Get("card[number]"))
}

func TestPurchaseSendSkipsTokenizationWithStoredCard(t *testing.T) {
    proc := &mockProcessor{
        chargeResult: &brick.ChargeResult{
            ID:         "sale_43",
            IsCaptured: true,
            StatusCode: 200,
            Raw:        map[string]interface{}{"id": "sale_43"},
        },
    }
    g := New(testConfig(), proc)

    params := purchaseParams()
    delete(params, "card")
    params["cardReference"] = "auth_stored"
    params["email"] = "ada@example.com"

    result, err := g.Purchase(params).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.Nil(t, proc.lastCard)
    assert.Equal(t, "auth_stored", proc.lastPurchase.Get("token"))
}

func TestPurchaseSendTokenDeclineIsAResultNotAnError(t *testing.T) {
    proc := &mockProcessor{
        tokenResult: &brick.TokenResult{Message: "Please ensure the CVV/CVC number is correct before retrying your credit card", Code: 3111},
    }
    g := New(testConfig(), proc)

    result, err := g.Purchase(purchaseParams()).Send(context.Background())
    require.NoError(t, err)
    assert.False(t, result.Successful())
    assert.Equal(t, 3111, result.Code())
    assert.Contains(t, result.Message(), "CVV")
    assert.Nil(t, proc.lastPurchase)
}

func TestPurchaseSendTransportFailureBecomesCommunicationError(t *testing.T) {
    proc := &mockProcessor{tokenErr: errors.New("dial tcp: connection refused")}
    g := New(testConfig(), proc)

    result, err := g.Purchase(purchaseParams()).Send(context.Background())
    require.NoError(t, err)
    assert.False(t, result.Successful())
    assert.Equal(t, brick.CodeCommunicationError, result.Code())
}

func TestPurchaseSendUnderReviewCharge(t *testing.T) {
    proc := &mockProcessor{
        tokenResult: &brick.TokenResult{Token: "ot_fresh"},
        chargeResult: &brick.ChargeResult{
            ID:         "sale_44",
            RiskStatus: "pending",
            StatusCode: 200,
            Raw:        map[string]interface{}{"id": "sale_44", "risk": "pending"},
        },
    }
    g := New(testConfig(), proc)

    result, err := g.Purchase(purchaseParams()).Send(context.Background())
    require.NoError(t, err)
    assert.True(t, result.Successful())
    assert.False(t, result.Captured())
    assert.True(t, result.UnderReview())
}
