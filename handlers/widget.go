package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"
    "github.com/gorilla/sessions"

    "paymentwall-gateway-api/config"
    "paymentwall-gateway-api/gateway"
    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/services/payment"
    "paymentwall-gateway-api/utils"
)

// WidgetHandler serves the hosted-page flow. The customer is redirected
// to the processor's widget and comes back through WidgetReturn; the
// pending reference is kept in a cookie session in between.
type WidgetHandler struct {
    paymentService *payment.Service
    store          *sessions.CookieStore
}

func NewWidgetHandler(ps *payment.Service, cfg *config.Config) *WidgetHandler {
    store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
    store.Options = &sessions.Options{
        Path:     "/",
        MaxAge:   3600,
        Secure:   true,
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    }
    return &WidgetHandler{paymentService: ps, store: store}
}

func (h *WidgetHandler) WidgetPurchase(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()

    var req models.WidgetPurchaseRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("[RequestID: %s] Invalid request body: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    result, err := h.paymentService.WidgetPurchase(r.Context(), &req)
    if err != nil {
        sendGatewayError(w, requestID, err)
        return
    }

    if !result.Successful() {
        log.Printf("[RequestID: %s] Widget URL build failed: %s", requestID, result.Message())
        sendResult(w, result, "")
        return
    }

    session, err := h.store.Get(r, "widget-session")
    if err != nil {
        log.Printf("[RequestID: %s] Error getting session: %v", requestID, err)
    } else {
        session.Values["pending_reference"] = req.Reference
        session.Values["account_id"] = req.AccountID
        if err := session.Save(r, w); err != nil {
            log.Printf("[RequestID: %s] Error saving session: %v", requestID, err)
        }
    }

    log.Printf("[RequestID: %s] Widget URL built for reference %s", requestID, req.Reference)

    sendResult(w, result, "Redirect the customer to the widget")
}

// WidgetReturn is where the customer lands after the hosted page. The
// actual payment outcome arrives via the processor's server callback;
// this endpoint only closes the browser loop.
func (h *WidgetHandler) WidgetReturn(w http.ResponseWriter, r *http.Request) {
    session, err := h.store.Get(r, "widget-session")
    if err != nil {
        log.Printf("Error getting session on widget return: %v", err)
    }

    var reference string
    if session != nil {
        if ref, ok := session.Values["pending_reference"].(string); ok {
            reference = ref
        }
        delete(session.Values, "pending_reference")
        delete(session.Values, "account_id")
        session.Save(r, w)
    }

    if reference == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "No pending widget payment in session")
        return
    }

    log.Printf("Customer returned from widget for reference %s", reference)

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Payment is being finalized by the processor",
        Data:    map[string]string{"reference": reference},
    })
}

// PaymentSystems lists the payment methods available for a country.
func (h *WidgetHandler) PaymentSystems(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()

    countryCode := mux.Vars(r)["country"]
    if countryCode == "" {
        countryCode = r.URL.Query().Get("country_code")
    }

    result, err := h.paymentService.PaymentSystems(r.Context(), countryCode)
    if err != nil {
        sendGatewayError(w, requestID, err)
        return
    }

    if !result.Successful() {
        log.Printf("[RequestID: %s] Payment systems listing failed with code %d", requestID, result.Code())
        utils.SendErrorResponse(w, http.StatusBadGateway, "Failed to retrieve payment systems")
        return
    }

    list, ok := result.(*gateway.PaymentListResponse)
    if !ok {
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Unexpected result type")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Payment systems retrieved",
        Data:    list.PaymentSystems(),
    })
}
