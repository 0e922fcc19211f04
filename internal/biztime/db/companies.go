package db

import (
	"context"
	"errors"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/models"
	"gorm.io/gorm"
)

func (r *Repository) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	companies := []models.CompanySummary{}
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Select("code", "name").
		Order("code").
		Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, code string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("%s doesn't exist!", code)
		}
		return nil, result.Error
	}
	return &company, nil
}

// CompanyInvoiceIDs returns the ids of the company's invoices in ascending order.
func (r *Repository) CompanyInvoiceIDs(ctx context.Context, code string) ([]int64, error) {
	ids := []int64{}
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("comp_code = ?", code).
		Order("id").
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

// CompanyIndustries returns the display names of the industries the company
// is associated with, sorted by name.
func (r *Repository) CompanyIndustries(ctx context.Context, code string) ([]string, error) {
	names := []string{}
	result := r.db.WithContext(ctx).Table("industries AS i").
		Joins("JOIN company_industry AS ci ON ci.ind_code = i.code").
		Where("ci.comp_code = ?", code).
		Order("i.industry").
		Pluck("i.industry", &names)
	if result.Error != nil {
		return nil, result.Error
	}
	return names, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		return classify(result.Error, "company "+company.Code)
	}
	return nil
}

// UpdateCompany overwrites name and description and returns the stored row.
func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	var updated *models.Company
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		result := tx.db.WithContext(ctx).Model(&models.Company{}).
			Where("code = ?", update.Code).
			Updates(map[string]interface{}{
				"name":        update.Name,
				"description": update.Description,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.NotFound("%s doesn't exist!", update.Code)
		}

		company, err := tx.GetCompany(ctx, update.Code)
		if err != nil {
			return err
		}
		updated = company
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCompany removes the company and returns the row as it was. Invoices
// and industry associations go with it through ON DELETE CASCADE.
func (r *Repository) DeleteCompany(ctx context.Context, code string) (*models.Company, error) {
	var deleted *models.Company
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		company, err := tx.GetCompany(ctx, code)
		if err != nil {
			return err
		}
		result := tx.db.WithContext(ctx).Delete(&models.Company{}, "code = ?", code)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.NotFound("%s doesn't exist!", code)
		}
		deleted = company
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
