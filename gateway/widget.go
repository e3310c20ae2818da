package gateway

import (
    "context"
    "net/url"

    "paymentwall-gateway-api/services/payment/brick"
)

// WidgetData is the assembled input for a hosted-payment redirect: one
// fixed-price line item plus the customer/session fields the hosted page
// needs.
type WidgetData struct {
    UserID    string
    WidgetKey string
    Product   brick.Product
    Extra     url.Values
}

// WidgetPurchaseRequest does not charge anything itself; it produces the
// redirect URL for the processor-hosted payment page. The transaction
// reference only becomes known later through a pingback, which is outside
// this request's scope.
type WidgetPurchaseRequest struct {
    request
}

func (r *WidgetPurchaseRequest) Data() (*WidgetData, error) {
    err := r.validate(
        "email", "clientIp", "browserDomain", "accountId",
        "widgetKey", "packageId", "amount", "currency", "description",
    )
    if err != nil {
        return nil, err
    }

    extra := url.Values{}
    extra.Set("email", r.params.GetString("email"))
    extra.Set("browser_ip", r.params.GetString("clientIp"))
    extra.Set("browser_domain", r.params.GetString("browserDomain"))
    setIfPresent(extra, "country_code", r.params.GetString("countryCode"))
    setIfPresent(extra, "success_url", r.params.GetString("returnUrl"))
    setIfPresent(extra, "pingback_url", r.params.GetString("notifyUrl"))

    return &WidgetData{
        UserID:    r.params.GetString("accountId"),
        WidgetKey: r.params.GetString("widgetKey"),
        Product: brick.Product{
            ID:       r.params.GetString("packageId"),
            Name:     r.params.GetString("description"),
            Amount:   r.params.GetString("amount"),
            Currency: r.params.GetString("currency"),
        },
        Extra: extra,
    }, nil
}

func (r *WidgetPurchaseRequest) Send(ctx context.Context) (Result, error) {
    data, err := r.Data()
    if err != nil {
        return nil, err
    }

    redirectURL, err := r.processor.BuildWidgetURL(data.UserID, data.WidgetKey, []brick.Product{data.Product}, data.Extra)
    if err != nil {
        return NewErrorResponse("Cannot process payment", brick.CodeCommunicationError), nil
    }
    return NewWidgetPurchaseResponse(redirectURL), nil
}

// WidgetPaymentListRequest is a read-only query for the local payment
// methods available in a country. The signed query carries no charge
// side effect.
type WidgetPaymentListRequest struct {
    request
}

func (r *WidgetPaymentListRequest) Data() (url.Values, error) {
    if err := r.validate("countryCode"); err != nil {
        return nil, err
    }

    // The library profile signs with the public key; legacy deployments
    // configured with a site key use that instead.
    key := r.params.GetString("publicKey")
    if key == "" {
        key = r.params.GetString("siteKey")
    }

    signVersion := r.params.GetString("signVersion")
    params := map[string]string{
        "key":          key,
        "country_code": r.params.GetString("countryCode"),
        "sign_version": signVersion,
    }
    sign := brick.CalculateSignature(params, r.params.GetString("privateKey"), toInt(signVersion))

    query := url.Values{}
    for k, v := range params {
        query.Set(k, v)
    }
    query.Set("sign", sign)
    return query, nil
}

func (r *WidgetPaymentListRequest) Send(ctx context.Context) (Result, error) {
    query, err := r.Data()
    if err != nil {
        return nil, err
    }

    list, err := r.processor.ListPaymentSystems(ctx, query)
    if err != nil {
        return NewErrorResponse(err.Error(), brick.CodeCommunicationError), nil
    }
    return NewPaymentListResponse(list.Systems, list.StatusCode), nil
}
