package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/biztime/internal/biztime/models"
	"go.uber.org/zap"
)

// IndustryController defines the industry operations the HTTP handlers invoke.
type IndustryController interface {
	ListIndustries(ctx context.Context) ([]models.IndustryCompany, error)
	CreateIndustry(ctx context.Context, industry *models.Industry) (*models.Industry, error)
	AssociateCompany(ctx context.Context, indCode, compCode string) (*models.CompanyIndustry, error)
}

type industryRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Industry string `json:"industry" validate:"required,max=255"`
}

type associateRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// IndustryHandler serves /industries.
type IndustryHandler struct {
	service IndustryController
	logger  *zap.Logger
}

func NewIndustryHandler(service IndustryController, logger *zap.Logger) *IndustryHandler {
	return &IndustryHandler{
		service: service,
		logger:  logger.Named("industry_handler"),
	}
}

func (h *IndustryHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/industries", Handler: h.list},
		{Method: http.MethodPost, Pattern: "/industries", Handler: h.create},
		{Method: http.MethodPost, Pattern: "/industries/{code}", Handler: h.associate},
	}
}

func (h *IndustryHandler) list(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	industries, err := h.service.ListIndustries(r.Context())
	if err != nil {
		return err
	}
	if industries == nil {
		industries = []models.IndustryCompany{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"industries": industries})
	return nil
}

func (h *IndustryHandler) create(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	var req industryRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	created, err := h.service.CreateIndustry(r.Context(), &models.Industry{
		Code:     req.Code,
		Industry: req.Industry,
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"industry": created})
	return nil
}

// associate adds the company named in the body to the industry in the path.
func (h *IndustryHandler) associate(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	var req associateRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	association, err := h.service.AssociateCompany(r.Context(), params["code"], req.Code)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"company_industry": association})
	return nil
}
