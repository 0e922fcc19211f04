package handlers

import (
	"context"
	"net/http"
	"strconv"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceController defines the invoice operations the HTTP handlers invoke.
type InvoiceController interface {
	ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error)
	GetInvoice(ctx context.Context, id int64) (*models.InvoiceDetail, error)
	CreateInvoice(ctx context.Context, compCode string, amt decimal.Decimal) (*models.Invoice, error)
	PayInvoice(ctx context.Context, id int64, payment decimal.Decimal) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

type createInvoiceRequest struct {
	CompCode string           `json:"comp_code" validate:"required"`
	Amt      *decimal.Decimal `json:"amt" validate:"required"`
}

type payInvoiceRequest struct {
	Amt *decimal.Decimal `json:"amt" validate:"required"`
}

// InvoiceHandler serves /invoices.
type InvoiceHandler struct {
	service InvoiceController
	logger  *zap.Logger
}

func NewInvoiceHandler(service InvoiceController, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.Named("invoice_handler"),
	}
}

func (h *InvoiceHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/invoices", Handler: h.list},
		{Method: http.MethodPost, Pattern: "/invoices", Handler: h.create},
		{Method: http.MethodGet, Pattern: "/invoices/{id}", Handler: h.get},
		{Method: http.MethodPut, Pattern: "/invoices/{id}", Handler: h.pay},
		{Method: http.MethodDelete, Pattern: "/invoices/{id}", Handler: h.delete},
	}
}

// invoiceID parses the id path parameter. An id that is not an integer
// cannot match any row, so it is reported as not found.
func invoiceID(params map[string]string) (int64, error) {
	raw := params["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, e.NotFound("Invoice %s doesn't exist!", raw)
	}
	return id, nil
}

func (h *InvoiceHandler) list(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	invoices, err := h.service.ListInvoices(r.Context())
	if err != nil {
		return err
	}
	if invoices == nil {
		invoices = []models.InvoiceSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoices": invoices})
	return nil
}

func (h *InvoiceHandler) get(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := invoiceID(params)
	if err != nil {
		return err
	}
	invoice, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoice": invoice})
	return nil
}

func (h *InvoiceHandler) create(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	var req createInvoiceRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	created, err := h.service.CreateInvoice(r.Context(), req.CompCode, *req.Amt)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"invoice": created})
	return nil
}

func (h *InvoiceHandler) pay(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := invoiceID(params)
	if err != nil {
		return err
	}
	var req payInvoiceRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	updated, err := h.service.PayInvoice(r.Context(), id, *req.Amt)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invoice": updated})
	return nil
}

func (h *InvoiceHandler) delete(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := invoiceID(params)
	if err != nil {
		return err
	}
	if err := h.service.DeleteInvoice(r.Context(), id); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "Invoice " + strconv.FormatInt(id, 10) + " deleted."})
	return nil
}
