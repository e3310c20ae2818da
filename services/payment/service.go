package payment

import (
    "context"
    "errors"
    "log"
    "time"

    "paymentwall-gateway-api/gateway"
    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/services/payment/brick"
    "paymentwall-gateway-api/types"
)

// Service fronts the gateway for handlers and workers. It pre-validates
// raw card data before any request is built; the gateway itself treats
// the card as an already-checked value object.
type Service struct {
    gw *gateway.Gateway
}

func NewPaymentService(cfg gateway.Config) *Service {
    client := brick.NewClient(cfg.PublicKey, cfg.PrivateKey, cfg.APIType, cfg.SignVersion, cfg.TestMode)
    return &Service{gw: gateway.New(cfg, client)}
}

// NewPaymentServiceWith injects a prebuilt processor, used by tests.
func NewPaymentServiceWith(cfg gateway.Config, processor gateway.Processor) *Service {
    return &Service{gw: gateway.New(cfg, processor)}
}

func (s *Service) Gateway() *gateway.Gateway {
    return s.gw
}

func (s *Service) Purchase(ctx context.Context, req *models.ChargeRequest) (gateway.Result, error) {
    if err := s.checkCard(req); err != nil {
        return nil, err
    }
    return s.gw.Purchase(chargeParams(req)).Send(ctx)
}

func (s *Service) Authorize(ctx context.Context, req *models.ChargeRequest) (gateway.Result, error) {
    if err := s.checkCard(req); err != nil {
        return nil, err
    }
    return s.gw.Authorize(chargeParams(req)).Send(ctx)
}

func (s *Service) Capture(ctx context.Context, saleID string) (gateway.Result, error) {
    return s.gw.Capture(referenceParams(saleID)).Send(ctx)
}

func (s *Service) Void(ctx context.Context, saleID string) (gateway.Result, error) {
    return s.gw.Void(referenceParams(saleID)).Send(ctx)
}

func (s *Service) Refund(ctx context.Context, saleID string) (gateway.Result, error) {
    return s.gw.Refund(referenceParams(saleID)).Send(ctx)
}

func (s *Service) Status(ctx context.Context, saleID string) (gateway.Result, error) {
    return s.gw.PurchaseStatus(referenceParams(saleID)).Send(ctx)
}

func (s *Service) WidgetPurchase(ctx context.Context, req *models.WidgetPurchaseRequest) (gateway.Result, error) {
    return s.gw.WidgetPurchase(map[string]interface{}{
        "accountId":     req.AccountID,
        "packageId":     req.PackageID,
        "amount":        req.Amount,
        "currency":      req.Currency,
        "description":   req.Description,
        "email":         req.Email,
        "clientIp":      req.ClientIP,
        "browserDomain": req.BrowserDomain,
        "countryCode":   req.CountryCode,
        "returnUrl":     req.ReturnURL,
        "notifyUrl":     req.NotifyURL,
    }).Send(ctx)
}

func (s *Service) PaymentSystems(ctx context.Context, countryCode string) (gateway.Result, error) {
    return s.gw.WidgetPaymentList(map[string]interface{}{
        "countryCode": countryCode,
    }).Send(ctx)
}

func (s *Service) checkCard(req *models.ChargeRequest) error {
    if req.Card == nil {
        return nil
    }
    if !s.ValidateCard(req.Card) {
        return errors.New("invalid card data: please check card number, expiration date and CVV")
    }
    return nil
}

func chargeParams(req *models.ChargeRequest) map[string]interface{} {
    params := map[string]interface{}{
        "amount":        req.Amount,
        "currency":      req.Currency,
        "accountId":     req.AccountID,
        "description":   req.Description,
        "email":         req.Email,
        "clientIp":      req.ClientIP,
        "browserDomain": req.BrowserDomain,
        "fingerprint":   req.Fingerprint,
        "cardReference": req.CardReference,
        "token":         req.Token,
        "packageId":     req.PackageID,
        "returnUrl":     req.ReturnURL,
        "notifyUrl":     req.NotifyURL,
    }
    // Drop empty optionals so the bag's Has semantics stay meaningful.
    for k, v := range params {
        if s, ok := v.(string); ok && s == "" {
            delete(params, k)
        }
    }
    if req.Card != nil {
        params["card"] = req.Card
    }
    if req.Capture != nil {
        params["capture"] = *req.Capture
    }
    if req.Secure {
        params["secure"] = true
    }
    if len(req.CustomParameters) > 0 {
        params["customParameters"] = req.CustomParameters
    }
    if len(req.CustomerData) > 0 {
        params["customerData"] = req.CustomerData
    }
    if len(req.HistoryData) > 0 {
        params["historyData"] = req.HistoryData
    }
    return params
}

func referenceParams(saleID string) map[string]interface{} {
    return map[string]interface{}{"transactionReference": saleID}
}

func (s *Service) ValidateCard(card *types.CreditCard) bool {
    if len(card.Number) < 13 || len(card.Number) > 19 {
        log.Printf("Invalid card number length: %d", len(card.Number))
        return false
    }

    if len(card.CVV) < 3 || len(card.CVV) > 4 {
        log.Printf("Invalid CVV length: %d", len(card.CVV))
        return false
    }

    if !validateExpiry(card.ExpiryMonth, card.ExpiryYear) {
        log.Printf("Invalid expiry date: %s/%s", card.ExpiryMonth, card.ExpiryYear)
        return false
    }

    if !validateLuhn(card.Number) {
        log.Printf("Failed Luhn check for card number")
        return false
    }

    return true
}

func validateLuhn(cardNumber string) bool {
    sum := 0
    isEven := len(cardNumber)%2 == 0

    for i, r := range cardNumber {
        digit := int(r - '0')

        if digit < 0 || digit > 9 {
            return false
        }

        if isEven == (i%2 == 0) {
            digit *= 2
            if digit > 9 {
                digit -= 9
            }
        }
        sum += digit
    }

    return sum%10 == 0
}

func validateExpiry(month, year string) bool {
    expiryTime, err := time.Parse("01/2006", month+"/"+year)
    if err != nil {
        return false
    }

    // End of the expiry month.
    expiryTime = time.Date(
        expiryTime.Year(),
        expiryTime.Month()+1,
        0,
        23, 59, 59, 0,
        time.UTC,
    )

    return expiryTime.After(time.Now())
}
