package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table. Amt is the outstanding balance;
// payments are subtracted from it.
type Invoice struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CompCode string          `gorm:"not null;index" json:"comp_code"`
	Company  *Company        `gorm:"foreignKey:CompCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Amt      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amt"`
	Paid     bool            `gorm:"not null;default:false" json:"paid"`
	AddDate  time.Time       `gorm:"not null" json:"add_date"`
	PaidDate *time.Time      `json:"paid_date"`
}

// InvoiceSummary is the list representation of an invoice.
type InvoiceSummary struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}

// InvoiceDetail is an invoice with its owning company nested in place of comp_code.
type InvoiceDetail struct {
	ID       int64           `json:"id"`
	Amt      decimal.Decimal `json:"amt"`
	Paid     bool            `json:"paid"`
	AddDate  time.Time       `json:"add_date"`
	PaidDate *time.Time      `json:"paid_date"`
	Company  Company         `json:"company"`
}

// NewInvoiceDetail reshapes an invoice loaded with its Company into an InvoiceDetail.
func NewInvoiceDetail(inv *Invoice) *InvoiceDetail {
	d := &InvoiceDetail{
		ID:       inv.ID,
		Amt:      inv.Amt,
		Paid:     inv.Paid,
		AddDate:  inv.AddDate,
		PaidDate: inv.PaidDate,
	}
	if inv.Company != nil {
		d.Company = *inv.Company
	} else {
		d.Company = Company{Code: inv.CompCode}
	}
	return d
}

// ApplyPayment subtracts payment from the outstanding balance. The invoice is
// paid once the balance reaches zero or below; PaidDate records when that
// first happened and is cleared while a balance remains.
func (inv *Invoice) ApplyPayment(payment decimal.Decimal, now time.Time) {
	inv.Amt = inv.Amt.Sub(payment)
	wasPaid := inv.Paid
	inv.Paid = inv.Amt.LessThanOrEqual(decimal.Zero)

	switch {
	case !inv.Paid:
		inv.PaidDate = nil
	case !wasPaid || inv.PaidDate == nil:
		inv.PaidDate = &now
	}
}
