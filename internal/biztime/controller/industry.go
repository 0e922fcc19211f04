package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/events"
	"github.com/gartstein/biztime/internal/biztime/models"
	"go.uber.org/zap"
)

// IndustryRepository defines the storage operations IndustryService needs.
type IndustryRepository interface {
	ListIndustries(ctx context.Context) ([]models.IndustryCompany, error)
	CreateIndustry(ctx context.Context, industry *models.Industry) error
	AssociateIndustry(ctx context.Context, indCode, compCode string) (*models.CompanyIndustry, error)
}

// IndustryService manages industries and their company associations.
type IndustryService struct {
	repo     IndustryRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewIndustryService(repo IndustryRepository, producer EventProducer, logger *zap.Logger) *IndustryService {
	return &IndustryService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("industry_service"),
	}
}

func (s *IndustryService) ListIndustries(ctx context.Context) ([]models.IndustryCompany, error) {
	rows, err := s.repo.ListIndustries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list industries: %w", err)
	}
	return rows, nil
}

func (s *IndustryService) CreateIndustry(ctx context.Context, industry *models.Industry) (*models.Industry, error) {
	industry.Code = strings.TrimSpace(industry.Code)
	industry.Industry = strings.TrimSpace(industry.Industry)
	if industry.Code == "" || industry.Industry == "" {
		return nil, e.InvalidInput("code and industry are required")
	}

	if err := s.repo.CreateIndustry(ctx, industry); err != nil {
		if errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create industry: %w", err)
	}
	s.producer.Produce(events.IndustryCreated, industry.Code, industry)
	return industry, nil
}

// AssociateCompany links compCode to the industry indCode. Either side
// missing yields a not-found error naming it.
func (s *IndustryService) AssociateCompany(ctx context.Context, indCode, compCode string) (*models.CompanyIndustry, error) {
	compCode = strings.TrimSpace(compCode)
	if compCode == "" {
		return nil, e.InvalidInput("company code is required")
	}

	association, err := s.repo.AssociateIndustry(ctx, indCode, compCode)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to associate industry: %w", err)
	}
	s.logger.Info("industry associated",
		zap.String("ind_code", indCode),
		zap.String("comp_code", compCode),
	)
	s.producer.Produce(events.IndustryAssociated, indCode, association)
	return association, nil
}
