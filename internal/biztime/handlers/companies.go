package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/biztime/internal/biztime/models"
	"go.uber.org/zap"
)

// CompanyController defines the company operations the HTTP handlers invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.CompanySummary, error)
	GetCompany(ctx context.Context, code string) (*models.CompanyDetail, error)
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, code string) (*models.Company, error)
}

type companyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// CompanyHandler serves /companies.
type CompanyHandler struct {
	service CompanyController
	logger  *zap.Logger
}

func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("company_handler"),
	}
}

func (h *CompanyHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/companies", Handler: h.list},
		{Method: http.MethodPost, Pattern: "/companies", Handler: h.create},
		{Method: http.MethodGet, Pattern: "/companies/{code}", Handler: h.get},
		{Method: http.MethodPut, Pattern: "/companies/{code}", Handler: h.update},
		{Method: http.MethodDelete, Pattern: "/companies/{code}", Handler: h.delete},
	}
}

func (h *CompanyHandler) list(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		return err
	}
	if companies == nil {
		companies = []models.CompanySummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
	return nil
}

func (h *CompanyHandler) get(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	company, err := h.service.GetCompany(r.Context(), params["code"])
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": company})
	return nil
}

func (h *CompanyHandler) create(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	var req companyRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	created, err := h.service.CreateCompany(r.Context(), &models.Company{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	h.logger.Debug("company created", zap.String("code", created.Code))
	writeJSON(w, http.StatusCreated, map[string]interface{}{"company": created})
	return nil
}

func (h *CompanyHandler) update(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	var req companyRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateCompany(r.Context(), &models.CompanyUpdate{
		Code:        params["code"],
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"company": updated})
	return nil
}

func (h *CompanyHandler) delete(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	deleted, err := h.service.DeleteCompany(r.Context(), params["code"])
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: deleted.Name + " deleted."})
	return nil
}
