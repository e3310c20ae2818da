package brick

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "log"
    "net/http"
    "net/url"
    "strings"
    "time"
)

const (
    // BrickEndpoint serves token and charge calls.
    BrickEndpoint = "https://api.paymentwall.com/api/brick"
    // APIEndpoint serves widget redirects and the payment-systems listing.
    APIEndpoint = "https://api.paymentwall.com/api"

    RequestTimeout = 30 * time.Second
)

// Client talks to the Paymentwall Brick and Widget APIs. Test payments
// run against the same endpoints with a dev-flag header; sandbox card
// numbers 4242424242424242 and 4000000000000002 paired with CVV 111, 222
// or 333 deterministically trigger a CVV error, an insufficient-balance
// decline and a not-approved decline. Any other valid CVV succeeds.
type Client struct {
    publicKey   string
    privateKey  string
    apiType     int
    signVersion int
    testMode    bool
    brickURL    string
    apiURL      string
    client      *http.Client
}

func NewClient(publicKey, privateKey string, apiType, signVersion int, testMode bool) *Client {
    transport := &http.Transport{
        MaxIdleConns:        100,
        MaxIdleConnsPerHost: 20,
        MaxConnsPerHost:     100,
        IdleConnTimeout:     90 * time.Second,
        TLSHandshakeTimeout: 10 * time.Second,
    }

    if signVersion < 2 {
        signVersion = 2
    }

    return &Client{
        publicKey:   publicKey,
        privateKey:  privateKey,
        apiType:     apiType,
        signVersion: signVersion,
        testMode:    testMode,
        brickURL:    BrickEndpoint,
        apiURL:      APIEndpoint,
        client: &http.Client{
            Timeout:   RequestTimeout,
            Transport: transport,
        },
    }
}

// SetBaseURLs overrides the remote endpoints, used by tests.
func (c *Client) SetBaseURLs(brickURL, apiURL string) {
    c.brickURL = brickURL
    c.apiURL = apiURL
}

// CreateToken exchanges raw card fields for a one-time token. A declined
// card yields a TokenResult with the processor's message and code, not an
// error; the error return is reserved for transport failures.
func (c *Client) CreateToken(ctx context.Context, card url.Values) (*TokenResult, error) {
    form := url.Values{}
    for k, vs := range card {
        for _, v := range vs {
            form.Add(k, v)
        }
    }
    form.Set("public_key", c.publicKey)

    body, status, err := c.postForm(ctx, c.brickURL+"/token", form)
    if err != nil {
        return nil, err
    }

    data, err := decodeBody(body)
    if err != nil {
        return nil, fmt.Errorf("error decoding token response: %v, body: %s", err, string(body))
    }

    result := &TokenResult{StatusCode: status}
    if v, ok := data["token"].(string); ok {
        result.Token = v
    }
    if v, ok := data["expires_in"].(float64); ok {
        result.ExpiresIn = int(v)
    }
    result.Message, result.Code = errorFields(data)
    return result, nil
}

// CreateCharge submits the purchase fields and returns the resulting
// charge state.
func (c *Client) CreateCharge(ctx context.Context, purchase url.Values) (*ChargeResult, error) {
    body, status, err := c.postForm(ctx, c.brickURL+"/charge", purchase)
    if err != nil {
        return nil, err
    }
    return parseCharge(body, status)
}

// GetCharge looks up a charge by sale id without mutating it.
func (c *Client) GetCharge(ctx context.Context, saleID string) (*ChargeResult, error) {
    body, status, err := c.do(ctx, http.MethodGet, c.brickURL+"/charge/"+url.PathEscape(saleID), nil)
    if err != nil {
        return nil, err
    }
    return parseCharge(body, status)
}

// RefundCharge refunds (or cancels, for uncaptured authorizations) a
// charge by sale id. The processor has no separate void operation.
func (c *Client) RefundCharge(ctx context.Context, saleID string) (*ChargeResult, error) {
    body, status, err := c.postForm(ctx, c.brickURL+"/charge/"+url.PathEscape(saleID)+"/refund", url.Values{})
    if err != nil {
        return nil, err
    }
    return parseCharge(body, status)
}

// CaptureCharge settles a previously authorized charge.
func (c *Client) CaptureCharge(ctx context.Context, saleID string) (*ChargeResult, error) {
    body, status, err := c.postForm(ctx, c.brickURL+"/charge/"+url.PathEscape(saleID)+"/capture", url.Values{})
    if err != nil {
        return nil, err
    }
    return parseCharge(body, status)
}

// ListPaymentSystems fetches the local payment methods for the query,
// which must already carry key, country_code, sign_version and sign.
func (c *Client) ListPaymentSystems(ctx context.Context, query url.Values) (*PaymentListResult, error) {
    body, status, err := c.do(ctx, http.MethodGet, c.apiURL+"/payment-systems/?"+query.Encode(), nil)
    if err != nil {
        return nil, err
    }

    result := &PaymentListResult{StatusCode: status}
    var systems []map[string]interface{}
    if err := json.Unmarshal(cleanBody(body), &systems); err == nil {
        result.Systems = systems
    }
    return result, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, int, error) {
    return c.do(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, int, error) {
    start := time.Now()

    ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
    defer cancel()

    req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
    if err != nil {
        return nil, 0, fmt.Errorf("error creating request: %v", err)
    }

    req.Header.Set("Accept", "application/json")
    if method == http.MethodPost {
        req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
        req.Header.Set("X-ApiKey", c.privateKey)
    }
    if c.testMode {
        req.Header.Set("dev-flag", "1")
    }

    resp, err := c.client.Do(req)
    if err != nil {
        return nil, 0, fmt.Errorf("error making request: %v", err)
    }
    defer resp.Body.Close()

    respBody, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, 0, fmt.Errorf("error reading response body: %v", err)
    }

    log.Printf("Paymentwall %s %s answered %d in %v", method, req.URL.Path, resp.StatusCode, time.Since(start))
    return respBody, resp.StatusCode, nil
}

func parseCharge(body []byte, status int) (*ChargeResult, error) {
    data, err := decodeBody(body)
    if err != nil {
        return nil, fmt.Errorf("error decoding charge response: %v, body: %s", err, string(body))
    }

    result := &ChargeResult{StatusCode: status, Raw: data}
    if v, ok := data["id"]; ok {
        result.ID = asString(v)
    }
    if v, ok := data["object"].(string); ok {
        result.Object = v
    }
    if v, ok := data["amount"]; ok {
        result.Amount = asString(v)
    }
    if v, ok := data["currency"].(string); ok {
        result.Currency = v
    }
    if v, ok := data["captured"].(bool); ok {
        result.IsCaptured = v
    }
    if v, ok := data["refunded"].(bool); ok {
        result.Refunded = v
    }
    if v, ok := data["risk"].(string); ok {
        result.RiskStatus = v
    }
    return result, nil
}

func decodeBody(body []byte) (map[string]interface{}, error) {
    cleaned := cleanBody(body)
    if len(cleaned) == 0 {
        return map[string]interface{}{}, nil
    }

    var data map[string]interface{}
    if err := json.Unmarshal(cleaned, &data); err != nil {
        return nil, err
    }
    return data, nil
}

func cleanBody(body []byte) []byte {
    return []byte(strings.TrimSpace(strings.TrimPrefix(string(body), "\ufeff")))
}

func asString(v interface{}) string {
    switch t := v.(type) {
    case string:
        return t
    case float64:
        if t == float64(int64(t)) {
            return fmt.Sprintf("%d", int64(t))
        }
        return fmt.Sprintf("%v", t)
    default:
        return fmt.Sprintf("%v", t)
    }
}

func errorFields(data map[string]interface{}) (string, int) {
    message := ""
    code := 0
    switch e := data["error"].(type) {
    case string:
        message = e
    case map[string]interface{}:
        if m, ok := e["message"].(string); ok {
            message = m
        }
        if c, ok := e["code"].(float64); ok {
            code = int(c)
        }
    }
    if c, ok := data["code"].(float64); ok && code == 0 {
        code = int(c)
    }
    return message, code
}
