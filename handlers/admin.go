package handlers

import (
    "encoding/json"
    "log"
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"

    "paymentwall-gateway-api/database"
    "paymentwall-gateway-api/middleware"
    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/queue"
    "paymentwall-gateway-api/services/payment"
    "paymentwall-gateway-api/utils"
)

// AdminHandler exposes operational endpoints behind the admin JWT role:
// synchronous refunds and failed-job management.
type AdminHandler struct {
    db             *database.Connection
    paymentService *payment.Service
    queue          *queue.Queue
}

func NewAdminHandler(db *database.Connection, ps *payment.Service, q *queue.Queue) *AdminHandler {
    return &AdminHandler{
        db:             db,
        paymentService: ps,
        queue:          q,
    }
}

// ManualRefund runs a refund inline instead of through the queue. Used
// by support tooling where the operator waits for the outcome.
func (h *AdminHandler) ManualRefund(w http.ResponseWriter, r *http.Request) {
    requestID := uuid.New().String()
    client := middleware.GetClientFromContext(r.Context())

    var req models.ReferenceRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TransactionReference == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "transaction_reference is required")
        return
    }

    if client != nil {
        log.Printf("[RequestID: %s] Manual refund of %s requested by %s",
            requestID, req.TransactionReference, client.ClientID)
    }

    result, err := h.paymentService.Refund(r.Context(), req.TransactionReference)
    if err != nil {
        sendGatewayError(w, requestID, err)
        return
    }

    if result.Successful() {
        if err := h.db.UpdateTransactionStatus(req.TransactionReference, "refunded"); err != nil {
            log.Printf("[RequestID: %s] Failed to update transaction status: %v", requestID, err)
        }
    }

    sendResult(w, result, "Refund processed successfully")
}

func (h *AdminHandler) ListFailedJobs(w http.ResponseWriter, r *http.Request) {
    jobs, err := h.queue.FailedJobs(r.Context())
    if err != nil {
        log.Printf("Error listing failed jobs: %v", err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to list jobs")
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Failed jobs retrieved",
        Data:    jobs,
    })
}

func (h *AdminHandler) RetryFailedJob(w http.ResponseWriter, r *http.Request) {
    jobID := mux.Vars(r)["jobID"]
    if jobID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "job id is required")
        return
    }

    if err := h.queue.RetryJob(r.Context(), jobID); err != nil {
        log.Printf("Error retrying job %s: %v", jobID, err)
        utils.SendErrorResponse(w, http.StatusNotFound, err.Error())
        return
    }

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Job requeued for processing",
        Data:    map[string]string{"job_id": jobID},
    })
}
