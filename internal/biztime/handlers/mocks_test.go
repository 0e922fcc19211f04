package handlers

import (
	"context"

	"github.com/gartstein/biztime/internal/biztime/models"
	"github.com/shopspring/decimal"
)

type mockCompanies struct {
	list   func(context.Context) ([]models.CompanySummary, error)
	get    func(context.Context, string) (*models.CompanyDetail, error)
	create func(context.Context, *models.Company) (*models.Company, error)
	update func(context.Context, *models.CompanyUpdate) (*models.Company, error)
	delete func(context.Context, string) (*models.Company, error)
}

func (m *mockCompanies) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	return m.list(ctx)
}

func (m *mockCompanies) GetCompany(ctx context.Context, code string) (*models.CompanyDetail, error) {
	return m.get(ctx, code)
}

func (m *mockCompanies) CreateCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	return m.create(ctx, c)
}

func (m *mockCompanies) UpdateCompany(ctx context.Context, u *models.CompanyUpdate) (*models.Company, error) {
	return m.update(ctx, u)
}

func (m *mockCompanies) DeleteCompany(ctx context.Context, code string) (*models.Company, error) {
	return m.delete(ctx, code)
}

type mockInvoices struct {
	list   func(context.Context) ([]models.InvoiceSummary, error)
	get    func(context.Context, int64) (*models.InvoiceDetail, error)
	create func(context.Context, string, decimal.Decimal) (*models.Invoice, error)
	pay    func(context.Context, int64, decimal.Decimal) (*models.Invoice, error)
	delete func(context.Context, int64) error
}

func (m *mockInvoices) ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error) {
	return m.list(ctx)
}

func (m *mockInvoices) GetInvoice(ctx context.Context, id int64) (*models.InvoiceDetail, error) {
	return m.get(ctx, id)
}

func (m *mockInvoices) CreateInvoice(ctx context.Context, compCode string, amt decimal.Decimal) (*models.Invoice, error) {
	return m.create(ctx, compCode, amt)
}

func (m *mockInvoices) PayInvoice(ctx context.Context, id int64, payment decimal.Decimal) (*models.Invoice, error) {
	return m.pay(ctx, id, payment)
}

func (m *mockInvoices) DeleteInvoice(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

type mockIndustries struct {
	list      func(context.Context) ([]models.IndustryCompany, error)
	create    func(context.Context, *models.Industry) (*models.Industry, error)
	associate func(context.Context, string, string) (*models.CompanyIndustry, error)
}

func (m *mockIndustries) ListIndustries(ctx context.Context) ([]models.IndustryCompany, error) {
	return m.list(ctx)
}

func (m *mockIndustries) CreateIndustry(ctx context.Context, i *models.Industry) (*models.Industry, error) {
	return m.create(ctx, i)
}

func (m *mockIndustries) AssociateCompany(ctx context.Context, indCode, compCode string) (*models.CompanyIndustry, error) {
	return m.associate(ctx, indCode, compCode)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
