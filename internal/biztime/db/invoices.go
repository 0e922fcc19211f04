package db

import (
	"context"
	"errors"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/models"
	"gorm.io/gorm"
)

func (r *Repository) ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error) {
	invoices := []models.InvoiceSummary{}
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("id", "comp_code").
		Order("id").
		Find(&invoices)
	if result.Error != nil {
		return nil, result.Error
	}
	return invoices, nil
}

// GetInvoice loads an invoice joined with its owning company.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	result := r.db.WithContext(ctx).
		Joins("Company").
		First(&invoice, "invoices.id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("Invoice %d doesn't exist!", id)
		}
		return nil, result.Error
	}
	return &invoice, nil
}

func (r *Repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	result := r.db.WithContext(ctx).Create(invoice)
	if result.Error != nil {
		return classify(result.Error, "invoice for company "+invoice.CompCode)
	}
	return nil
}

// ApplyInvoicePayment loads the invoice, lets apply mutate its balance and
// paid state, and persists the result, all inside one transaction.
func (r *Repository) ApplyInvoicePayment(ctx context.Context, id int64, apply func(*models.Invoice)) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		result := tx.db.WithContext(ctx).First(&invoice, "id = ?", id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return e.NotFound("Invoice %d doesn't exist!", id)
			}
			return result.Error
		}

		apply(&invoice)

		result = tx.db.WithContext(ctx).Model(&models.Invoice{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"amt":       invoice.Amt,
				"paid":      invoice.Paid,
				"paid_date": invoice.PaidDate,
			})
		return result.Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.NotFound("Invoice %d doesn't exist!", id)
	}
	return nil
}
