package db

import (
	"context"
	"errors"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/models"
	"gorm.io/gorm"
)

// ListIndustries returns one row per industry/company pair. Industries
// without companies appear once with a nil code.
func (r *Repository) ListIndustries(ctx context.Context) ([]models.IndustryCompany, error) {
	rows := []models.IndustryCompany{}
	result := r.db.WithContext(ctx).Table("industries AS i").
		Select("i.industry, c.code").
		Joins("LEFT JOIN company_industry AS ci ON i.code = ci.ind_code").
		Joins("LEFT JOIN companies AS c ON c.code = ci.comp_code").
		Order("i.code").
		Order("c.code").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

func (r *Repository) GetIndustry(ctx context.Context, code string) (*models.Industry, error) {
	var industry models.Industry
	result := r.db.WithContext(ctx).First(&industry, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("Industry code (%s) does not exist!", code)
		}
		return nil, result.Error
	}
	return &industry, nil
}

func (r *Repository) CreateIndustry(ctx context.Context, industry *models.Industry) error {
	result := r.db.WithContext(ctx).Create(industry)
	if result.Error != nil {
		return classify(result.Error, "industry "+industry.Code)
	}
	return nil
}

// AssociateIndustry links a company to an industry after checking that both
// exist. Checks and insert share one transaction.
func (r *Repository) AssociateIndustry(ctx context.Context, indCode, compCode string) (*models.CompanyIndustry, error) {
	association := &models.CompanyIndustry{IndCode: indCode, CompCode: compCode}
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		if _, err := tx.GetIndustry(ctx, indCode); err != nil {
			return err
		}
		if _, err := tx.GetCompany(ctx, compCode); err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return e.NotFound("Company code (%s) does not exist!", compCode)
			}
			return err
		}
		result := tx.db.WithContext(ctx).Create(association)
		if result.Error != nil {
			return classify(result.Error, "association "+compCode+"/"+indCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return association, nil
}
