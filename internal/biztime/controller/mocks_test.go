package controller

import (
	"context"
	"sync"

	"github.com/gartstein/biztime/internal/biztime/events"
	"github.com/gartstein/biztime/internal/biztime/models"
)

// MockRepository implements every repository interface of this package.
type MockRepository struct {
	listCompanies       func(context.Context) ([]models.CompanySummary, error)
	getCompany          func(context.Context, string) (*models.Company, error)
	companyInvoiceIDs   func(context.Context, string) ([]int64, error)
	companyIndustries   func(context.Context, string) ([]string, error)
	createCompany       func(context.Context, *models.Company) error
	updateCompany       func(context.Context, *models.CompanyUpdate) (*models.Company, error)
	deleteCompany       func(context.Context, string) (*models.Company, error)
	listInvoices        func(context.Context) ([]models.InvoiceSummary, error)
	getInvoice          func(context.Context, int64) (*models.Invoice, error)
	createInvoice       func(context.Context, *models.Invoice) error
	applyInvoicePayment func(context.Context, int64, func(*models.Invoice)) (*models.Invoice, error)
	deleteInvoice       func(context.Context, int64) error
	listIndustries      func(context.Context) ([]models.IndustryCompany, error)
	createIndustry      func(context.Context, *models.Industry) error
	associateIndustry   func(context.Context, string, string) (*models.CompanyIndustry, error)
}

func (m *MockRepository) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	return m.listCompanies(ctx)
}

func (m *MockRepository) GetCompany(ctx context.Context, code string) (*models.Company, error) {
	return m.getCompany(ctx, code)
}

func (m *MockRepository) CompanyInvoiceIDs(ctx context.Context, code string) ([]int64, error) {
	return m.companyInvoiceIDs(ctx, code)
}

func (m *MockRepository) CompanyIndustries(ctx context.Context, code string) ([]string, error) {
	return m.companyIndustries(ctx, code)
}

func (m *MockRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

func (m *MockRepository) UpdateCompany(ctx context.Context, u *models.CompanyUpdate) (*models.Company, error) {
	return m.updateCompany(ctx, u)
}

func (m *MockRepository) DeleteCompany(ctx context.Context, code string) (*models.Company, error) {
	return m.deleteCompany(ctx, code)
}

func (m *MockRepository) ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error) {
	return m.listInvoices(ctx)
}

func (m *MockRepository) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	return m.getInvoice(ctx, id)
}

func (m *MockRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	return m.createInvoice(ctx, inv)
}

func (m *MockRepository) ApplyInvoicePayment(ctx context.Context, id int64, apply func(*models.Invoice)) (*models.Invoice, error) {
	return m.applyInvoicePayment(ctx, id, apply)
}

func (m *MockRepository) DeleteInvoice(ctx context.Context, id int64) error {
	return m.deleteInvoice(ctx, id)
}

func (m *MockRepository) ListIndustries(ctx context.Context) ([]models.IndustryCompany, error) {
	return m.listIndustries(ctx)
}

func (m *MockRepository) CreateIndustry(ctx context.Context, ind *models.Industry) error {
	return m.createIndustry(ctx, ind)
}

func (m *MockRepository) AssociateIndustry(ctx context.Context, indCode, compCode string) (*models.CompanyIndustry, error) {
	return m.associateIndustry(ctx, indCode, compCode)
}

type producedEvent struct {
	Type    events.EventType
	Key     string
	Payload interface{}
}

// MockProducer records produced events.
type MockProducer struct {
	mu             sync.Mutex
	producedEvents []producedEvent
}

func (m *MockProducer) Produce(eventType events.EventType, key string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.producedEvents = append(m.producedEvents, producedEvent{eventType, key, payload})
}

func (m *MockProducer) events() []producedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]producedEvent(nil), m.producedEvents...)
}
