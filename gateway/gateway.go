package gateway

import (
    "context"
    "net/url"

    "paymentwall-gateway-api/services/payment/brick"
)

// Processor is the remote-operation façade the request variants call.
// Implemented by brick.Client; tests substitute their own.
type Processor interface {
    CreateToken(ctx context.Context, card url.Values) (*brick.TokenResult, error)
    CreateCharge(ctx context.Context, purchase url.Values) (*brick.ChargeResult, error)
    GetCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error)
    RefundCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error)
    CaptureCharge(ctx context.Context, saleID string) (*brick.ChargeResult, error)
    BuildWidgetURL(userID, widgetCode string, products []brick.Product, extra url.Values) (string, error)
    ListPaymentSystems(ctx context.Context, query url.Values) (*brick.PaymentListResult, error)
}

// Config holds the processor credentials and mode for the lifetime of a
// Gateway. PublicKey/PrivateKey serve the library mode; SiteKey and
// SiteDomain serve the legacy REST profile. A deployment picks one.
type Config struct {
    APIType     int
    PublicKey   string
    PrivateKey  string
    TestMode    bool
    WidgetKey   string
    SignVersion int
    SiteKey     string
    SiteDomain  string
}

// Gateway is a factory for request variants. It performs no network
// activity itself; every request it creates starts from a fresh bag
// seeded with the gateway configuration.
type Gateway struct {
    config    Config
    processor Processor
}

func New(config Config, processor Processor) *Gateway {
    if config.SignVersion == 0 {
        config.SignVersion = 2
    }
    return &Gateway{config: config, processor: processor}
}

func (g *Gateway) Config() Config {
    return g.config
}

func (g *Gateway) newParams(params map[string]interface{}) *Params {
    p := NewParams().
        Set("apiType", g.config.APIType).
        Set("publicKey", g.config.PublicKey).
        Set("privateKey", g.config.PrivateKey).
        Set("testMode", g.config.TestMode).
        Set("signVersion", g.config.SignVersion)
    if g.config.WidgetKey != "" {
        p.Set("widgetKey", g.config.WidgetKey)
    }
    if g.config.SiteKey != "" {
        p.Set("siteKey", g.config.SiteKey)
        p.Set("siteDomain", g.config.SiteDomain)
    }
    return p.Merge(params)
}

// Purchase creates a charge request that captures funds immediately
// unless the caller sets capture=false.
func (g *Gateway) Purchase(params map[string]interface{}) *PurchaseRequest {
    return &PurchaseRequest{
        request:        request{params: g.newParams(params), processor: g.processor},
        captureDefault: true,
    }
}

// Authorize is the authorization-only entry point: identical to Purchase
// with capture defaulting to false.
func (g *Gateway) Authorize(params map[string]interface{}) *PurchaseRequest {
    return &PurchaseRequest{
        request:        request{params: g.newParams(params), processor: g.processor},
        captureDefault: false,
    }
}

func (g *Gateway) Capture(params map[string]interface{}) *CaptureRequest {
    return &CaptureRequest{request: request{params: g.newParams(params), processor: g.processor}}
}

func (g *Gateway) Void(params map[string]interface{}) *VoidRequest {
    return &VoidRequest{request: request{params: g.newParams(params), processor: g.processor}}
}

func (g *Gateway) Refund(params map[string]interface{}) *RefundRequest {
    return &RefundRequest{request: request{params: g.newParams(params), processor: g.processor}}
}

func (g *Gateway) PurchaseStatus(params map[string]interface{}) *PurchaseStatusRequest {
    return &PurchaseStatusRequest{request: request{params: g.newParams(params), processor: g.processor}}
}

func (g *Gateway) WidgetPurchase(params map[string]interface{}) *WidgetPurchaseRequest {
    return &WidgetPurchaseRequest{request: request{params: g.newParams(params), processor: g.processor}}
}

func (g *Gateway) WidgetPaymentList(params map[string]interface{}) *WidgetPaymentListRequest {
    return &WidgetPaymentListRequest{request: request{params: g.newParams(params), processor: g.processor}}
}
