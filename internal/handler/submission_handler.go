package handler

import (
	"errors"
	"net/http"

	"dosadelight/internal/model"
	"dosadelight/internal/service"

	"github.com/rs/zerolog"
)

// Response messages returned to clients. They never carry internal error text.
const (
	msgOrderFailed      = "Failed to process order"
	msgContactFailed    = "Failed to process contact form"
	msgContactSubmitted = "Contact form submitted successfully"
	msgLoadOrders       = "Failed to load orders"
	msgLoadContacts     = "Failed to load contacts"
)

// SubmissionHandler handles order and contact HTTP requests.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("handler", "submission").Logger(),
	}
}

// CreateOrder handles POST /api/orders requests.
func (h *SubmissionHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil, h.logger)
		return
	}

	doc, err := readDocument(w, r)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, model.ErrInvalidBody.Message, err)
		return
	}

	orderID, err := h.service.SubmitOrder(r.Context(), doc)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, msgOrderFailed, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.SubmitOrderResponse{
		Success: true,
		OrderID: orderID,
	})
}

// CreateContact handles POST /api/contacts requests.
func (h *SubmissionHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil, h.logger)
		return
	}

	doc, err := readDocument(w, r)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, model.ErrInvalidBody.Message, err)
		return
	}

	if _, err := h.service.SubmitContact(r.Context(), doc); err != nil {
		if errors.Is(err, model.ErrMissingFields) {
			h.fail(w, r, http.StatusBadRequest, model.ErrMissingFields.Message, err)
			return
		}
		h.fail(w, r, http.StatusInternalServerError, msgContactFailed, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.SubmitContactResponse{
		Success: true,
		Message: msgContactSubmitted,
	})
}

// ListOrders handles GET /api/orders requests.
func (h *SubmissionHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil, h.logger)
		return
	}

	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, msgLoadOrders, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// ListContacts handles GET /api/contacts requests.
func (h *SubmissionHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil, h.logger)
		return
	}

	contacts, err := h.service.ListContacts(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, msgLoadContacts, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// fail writes the submission error envelope.
func (h *SubmissionHandler) fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	logFailure(r, status, message, err, h.logger)
	writeJSON(w, status, model.FailureResponse{
		Success: false,
		Message: message,
	})
}
