package brick

import (
    "fmt"
    "net/url"
    "strconv"
)

// widgetController maps the configured API type to the widget URL path.
func widgetController(apiType int) string {
    switch apiType {
    case APIVirtualCurrency:
        return "ps"
    case APICart:
        return "cart"
    default:
        return "subscription"
    }
}

// BuildWidgetURL assembles the hosted-payment redirect URL for a single
// fixed-price product plus any extra fields (email, browser ip/domain,
// callback URLs). The query is signed with the configured private key.
// It fails on malformed configuration; no network call is made.
func (c *Client) BuildWidgetURL(userID, widgetCode string, products []Product, extra url.Values) (string, error) {
    if widgetCode == "" {
        return "", fmt.Errorf("widget code is required to build a widget URL")
    }
    if userID == "" {
        return "", fmt.Errorf("user id is required to build a widget URL")
    }
    if len(products) == 0 {
        return "", fmt.Errorf("at least one product is required to build a widget URL")
    }

    params := map[string]string{
        "key":          c.publicKey,
        "uid":          userID,
        "widget":       widgetCode,
        "sign_version": strconv.Itoa(c.signVersion),
    }

    // The hosted page takes one fixed-price line item.
    product := products[0]
    params["amount"] = product.Amount
    params["currencyCode"] = product.Currency
    params["ag_name"] = product.Name
    params["ag_external_id"] = product.ID
    params["ag_type"] = "fixed"

    for k := range extra {
        if v := extra.Get(k); v != "" {
            params[k] = v
        }
    }

    params["sign"] = CalculateSignature(params, c.privateKey, c.signVersion)

    query := url.Values{}
    for k, v := range params {
        query.Set(k, v)
    }
    return c.apiURL + "/" + widgetController(c.apiType) + "?" + query.Encode(), nil
}
