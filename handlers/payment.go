package handlers

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"

    "paymentwall-gateway-api/database"
    "paymentwall-gateway-api/gateway"
    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/queue"
    "paymentwall-gateway-api/services/payment"
    "paymentwall-gateway-api/utils"
)

type PaymentHandler struct {
    db             *database.Connection
    paymentService *payment.Service
    queue          *queue.Queue
}

func NewPaymentHandler(db *database.Connection, ps *payment.Service, q *queue.Queue) (*PaymentHandler, error) {
    if db == nil {
        return nil, fmt.Errorf("database connection is required")
    }
    if ps == nil {
        return nil, fmt.Errorf("payment service is required")
    }
    if q == nil {
        return nil, fmt.Errorf("queue is required")
    }

    return &PaymentHandler{
        db:             db,
        paymentService: ps,
        queue:          q,
    }, nil
}

func toTransactionResponse(result gateway.Result) models.TransactionResponse {
    return models.TransactionResponse{
        Success:              result.Successful(),
        TransactionReference: result.TransactionReference(),
        CardReference:        result.CardReference(),
        Message:              result.Message(),
        Code:                 result.Code(),
        Captured:             result.Captured(),
        UnderReview:          result.UnderReview(),
        Redirect:             result.Redirect(),
        RedirectURL:          result.RedirectURL(),
    }
}

// sendResult maps a normalized gateway result onto the API envelope.
// Declines come back as HTTP 200 with success=false; the call itself
// worked, the processor said no.
func sendResult(w http.ResponseWriter, result gateway.Result, okMessage string) {
    resp := toTransactionResponse(result)
    status := "success"
    message := okMessage
    if !resp.Success {
        status = "declined"
        message = resp.Message
        if message == "" {
            message = "Transaction was not approved"
        }
    }
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  status,
        Message: message,
        Data:    resp,
    })
}

func sendGatewayError(w http.ResponseWriter, requestID string, err error) {
    var ve *gateway.ValidationError
    if errors.As(err, &ve) {
        utils.SendErrorResponse(w, http.StatusUnprocessableEntity, ve.Error())
        return
    }
    log.Printf("[RequestID: %s] Gateway error: %v", requestID, err)
    utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
}

func (h *PaymentHandler) ProcessPurchase(w http.ResponseWriter, r *http.Request) {
    h.processCharge(w, r, "purchase")
}

func (h *PaymentHandler) ProcessAuthorize(w http.ResponseWriter, r *http.Request) {
    h.processCharge(w, r, "authorize")
}

func (h *PaymentHandler) processCharge(w http.ResponseWriter, r *http.Request, operation string) {
    requestID := uuid.New().String()
    log.Printf("[RequestID: %s] Starting %s processing", requestID, operation)

    var req models.ChargeRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("[RequestID: %s] Invalid request body: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
        return
    }

    if req.Reference == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "reference is required")
        return
    }

    if req.Card != nil {
        log.Printf("[RequestID: %s] Card payment with %s for reference %s",
            requestID, req.Card.Masked(), req.Reference)
    }

    acquired, err := h.db.LockReference(req.Reference)
    if err != nil {
        log.Printf("[RequestID: %s] Error acquiring lock: %v", requestID, err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
        return
    }
    if !acquired {
        log.Printf("[RequestID: %s] Reference is being processed: %s", requestID, req.Reference)
        utils.SendErrorResponse(w, http.StatusConflict, "This reference is already being processed")
        return
    }
    defer h.db.ReleaseLock(req.Reference)

    var result gateway.Result
    if operation == "authorize" {
        result, err = h.paymentService.Authorize(r.Context(), &req)
    } else {
        result, err = h.paymentService.Purchase(r.Context(), &req)
    }
    if err != nil {
        sendGatewayError(w, requestID, err)
        return
    }

    h.recordTransaction(requestID, &req, operation, result)

    log.Printf("[RequestID: %s] %s finished: success=%v reference=%s",
        requestID, operation, result.Successful(), result.TransactionReference())

    sendResult(w, result, "Payment processed successfully")
}

func (h *PaymentHandler) recordTransaction(requestID string, req *models.ChargeRequest, operation string, result gateway.Result) {
    status := "declined"
    if result.Successful() {
        if result.Captured() {
            status = "captured"
        } else if result.UnderReview() {
            status = "under_review"
        } else {
            status = "authorized"
        }
    }

    rec := &models.TransactionRecord{
        ID:        uuid.New().String(),
        Reference: req.Reference,
        SaleID:    result.TransactionReference(),
        Operation: operation,
        Amount:    req.Amount,
        Currency:  req.Currency,
        Status:    status,
        Message:   result.Message(),
    }
    if err := h.db.SaveTransaction(rec); err != nil {
        log.Printf("[RequestID: %s] Failed to record transaction: %v", requestID, err)
    }
}

// CaptureTransaction settles a previously authorized charge synchronously.
func (h *PaymentHandler) CaptureTransaction(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()

    saleID, ok := h.saleIDFromRequest(w, r)
    if !ok {
        return
    }

    log.Printf("[RequestID: %s] Capturing transaction %s", requestID, saleID)

    result, err := h.paymentService.Capture(r.Context(), saleID)
    if err != nil {
        sendGatewayError(w, requestID, err)
        return
    }

    if result.Successful() {
        if err := h.db.UpdateTransactionStatus(saleID, "captured"); err != nil {
            log.Printf("[RequestID: %s] Failed to update transaction status: %v", requestID, err)
        }
    }

    sendResult(w, result, "Transaction captured successfully")
}

// VoidTransaction accepts the cancellation and hands it to the worker.
func (h *PaymentHandler) VoidTransaction(w http.ResponseWriter, r *http.Request) {
    h.enqueueReversal(w, r, queue.JobTypeVoidTransaction, "Void accepted for processing")
}

// RefundTransaction accepts the refund and hands it to the worker.
func (h *PaymentHandler) RefundTransaction(w http.ResponseWriter, r *http.Request) {
    h.enqueueReversal(w, r, queue.JobTypeRefundTransaction, "Refund accepted for processing")
}

func (h *PaymentHandler) enqueueReversal(w http.ResponseWriter, r *http.Request, jobType queue.JobType, message string) {
    requestID := uuid.New().String()

    saleID, ok := h.saleIDFromRequest(w, r)
    if !ok {
        return
    }

    err := h.queue.Enqueue(r.Context(), jobType, map[string]interface{}{
        "sale_id":    saleID,
        "request_id": requestID,
    })
    if err != nil {
        log.Printf("[RequestID: %s] Failed to enqueue %s for %s: %v", requestID, jobType, saleID, err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to queue the request")
        return
    }

    log.Printf("[RequestID: %s] Enqueued %s for transaction %s", requestID, jobType, saleID)

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusAccepted)
    json.NewEncoder(w).Encode(models.APIResponse{
        Status:  "accepted",
        Message: message,
        Data:    map[string]string{"sale_id": saleID},
    })
}

// PaymentStatus returns the processor's current view of a charge.
func (h *PaymentHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()

    saleID := mux.Vars(r)["saleID"]
    if saleID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "sale id is required")
        return
    }

    result, err := h.paymentService.Status(r.Context(), saleID)
    if err != nil {
        sendGatewayError(w, requestID, err)
        return
    }

    sendResult(w, result, "Transaction status retrieved")
}

// TransactionByReference looks up the local transaction log.
func (h *PaymentHandler) TransactionByReference(w http.ResponseWriter, r *http.Request) {
    reference := mux.Vars(r)["reference"]
    if reference == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "reference is required")
        return
    }

    rec, err := h.db.GetTransactionByReference(reference)
    if err != nil {
        log.Printf("Error loading transaction %s: %v", reference, err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Internal server error")
        return
    }
    if rec == nil {
        utils.SendErrorResponse(w, http.StatusNotFound, "Transaction not found")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Transaction retrieved",
        Data:    rec,
    })
}

func (h *PaymentHandler) saleIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
    if saleID := mux.Vars(r)["saleID"]; saleID != "" {
        return saleID, true
    }

    var req models.ReferenceRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TransactionReference == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "transaction_reference is required")
        return "", false
    }
    return req.TransactionReference, true
}
