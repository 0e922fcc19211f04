package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/events"
	"github.com/gartstein/biztime/internal/biztime/models"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// CompanyRepository defines the storage operations CompanyService needs.
type CompanyRepository interface {
	ListCompanies(ctx context.Context) ([]models.CompanySummary, error)
	GetCompany(ctx context.Context, code string) (*models.Company, error)
	CompanyInvoiceIDs(ctx context.Context, code string) ([]int64, error)
	CompanyIndustries(ctx context.Context, code string) ([]string, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, code string) (*models.Company, error)
}

// CompanyService manages companies.
type CompanyService struct {
	repo     CompanyRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewCompanyService(repo CompanyRepository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// CompanyCode derives a company's primary key from its display name.
func CompanyCode(name string) string {
	return slug.Make(name)
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany returns the company with its invoice ids and industry names.
func (s *CompanyService) GetCompany(ctx context.Context, code string) (*models.CompanyDetail, error) {
	company, err := s.repo.GetCompany(ctx, code)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	invoiceIDs, err := s.repo.CompanyInvoiceIDs(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get company invoices: %w", err)
	}
	industries, err := s.repo.CompanyIndustries(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get company industries: %w", err)
	}
	return models.NewCompanyDetail(company, invoiceIDs, industries), nil
}

// CreateCompany assigns the slug of the name as code and stores the company.
// A second company whose name maps to the same code fails on the primary key.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	company.Name = strings.TrimSpace(company.Name)
	if company.Name == "" {
		return nil, e.InvalidInput("name is required")
	}
	company.Code = CompanyCode(company.Name)
	if company.Code == "" {
		return nil, e.InvalidInput("%q does not produce a usable company code", company.Name)
	}

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	s.logger.Info("company created", zap.String("code", company.Code))
	s.producer.Produce(events.CompanyCreated, company.Code, company)
	return company, nil
}

func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	update.Name = strings.TrimSpace(update.Name)
	if update.Name == "" {
		return nil, e.InvalidInput("name is required")
	}

	updated, err := s.repo.UpdateCompany(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	s.producer.Produce(events.CompanyUpdated, updated.Code, updated)
	return updated, nil
}

// DeleteCompany removes a company and returns it as it was before deletion.
func (s *CompanyService) DeleteCompany(ctx context.Context, code string) (*models.Company, error) {
	deleted, err := s.repo.DeleteCompany(ctx, code)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete company: %w", err)
	}
	s.logger.Info("company deleted", zap.String("code", code))
	s.producer.Produce(events.CompanyDeleted, deleted.Code, deleted)
	return deleted, nil
}
