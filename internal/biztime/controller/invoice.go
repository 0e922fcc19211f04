package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	e "github.com/gartstein/biztime/internal/biztime/errors"
	"github.com/gartstein/biztime/internal/biztime/events"
	"github.com/gartstein/biztime/internal/biztime/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceRepository defines the storage operations InvoiceService needs.
type InvoiceRepository interface {
	ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	ApplyInvoicePayment(ctx context.Context, id int64, apply func(*models.Invoice)) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

// InvoiceService manages invoices and applies payments against their balance.
type InvoiceService struct {
	repo     InvoiceRepository
	producer EventProducer
	logger   *zap.Logger
	now      func() time.Time
}

func NewInvoiceService(repo InvoiceRepository, producer EventProducer, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("invoice_service"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]models.InvoiceSummary, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*models.InvoiceDetail, error) {
	invoice, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return models.NewInvoiceDetail(invoice), nil
}

// CreateInvoice opens an unpaid invoice for compCode. An unknown company is
// reported by the store as a constraint violation.
func (s *InvoiceService) CreateInvoice(ctx context.Context, compCode string, amt decimal.Decimal) (*models.Invoice, error) {
	compCode = strings.TrimSpace(compCode)
	if compCode == "" {
		return nil, e.InvalidInput("comp_code is required")
	}
	if amt.IsNegative() {
		return nil, e.InvalidInput("%s is not a valid amount!", amt)
	}

	invoice := &models.Invoice{
		CompCode: compCode,
		Amt:      amt,
		AddDate:  s.now(),
	}
	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		if errors.Is(err, e.ErrConstraint) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	s.producer.Produce(events.InvoiceCreated, strconv.FormatInt(invoice.ID, 10), invoice)
	return invoice, nil
}

// PayInvoice subtracts payment from the invoice's outstanding balance and
// marks it paid once nothing is left to pay.
func (s *InvoiceService) PayInvoice(ctx context.Context, id int64, payment decimal.Decimal) (*models.Invoice, error) {
	if payment.IsNegative() {
		return nil, e.InvalidInput("%s is not a valid amount!", payment)
	}

	now := s.now()
	updated, err := s.repo.ApplyInvoicePayment(ctx, id, func(inv *models.Invoice) {
		inv.ApplyPayment(payment, now)
	})
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	s.logger.Info("payment applied",
		zap.Int64("invoice_id", id),
		zap.String("payment", payment.String()),
		zap.String("balance", updated.Amt.String()),
		zap.Bool("paid", updated.Paid),
	)
	s.producer.Produce(events.InvoicePaid, strconv.FormatInt(id, 10), updated)
	return updated, nil
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	s.producer.Produce(events.InvoiceDeleted, strconv.FormatInt(id, 10), map[string]int64{"id": id})
	return nil
}
