package invoice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arush420/Project-X/internal/gen"
	"github.com/arush420/Project-X/internal/gst"
	"github.com/arush420/Project-X/internal/money"
	"github.com/arush420/Project-X/internal/pager"
	"go.uber.org/zap"
)

type Service struct {
	db   *sql.DB
	zlog *zap.Logger
}

func NewService(_ context.Context, db *sql.DB, zlog *zap.Logger) (*Service, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if zlog == nil {
		return nil, errors.New("logger is nil")
	}

	return &Service{db: db, zlog: zlog}, nil
}

// CreateInvoice issues a new e-invoice. The invoice number is generated here
// and never reused; tax heads are computed from the taxable value and stored.
func (s *Service) CreateInvoice(ctx context.Context, req *InvoiceReq) (*EInvoice, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CreateInvoice"),
		zap.String("Site", req.Site),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := &EInvoice{
		InvoiceNo: gen.Number("INV"),
		CreatedAt: time.Now(),
	}
	applyReq(inv, req)

	if err := saveInvoice(ctx, s.db, inv); err != nil {
		zlog.Error("Failed to save invoice", zap.Error(err))
		return nil, err
	}

	return inv, nil
}

// UpdateInvoice recomputes and replaces an invoice's figures. The invoice
// number and cancel flag are untouched.
func (s *Service) UpdateInvoice(ctx context.Context, req *InvoiceReq) (*EInvoice, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UpdateInvoice"),
		zap.Int64("ID", req.ID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := getInvoice(ctx, s.db, &InvoiceQuery{ID: req.ID})
	if err != nil {
		zlog.Error("Failed to get invoice", zap.Error(err))
		return nil, err
	}

	applyReq(inv, req)

	if err := saveInvoice(ctx, s.db, inv); err != nil {
		zlog.Error("Failed to save invoice", zap.Error(err))
		return nil, err
	}

	return inv, nil
}

// CancelInvoice marks an invoice cancelled. The record and its number stay.
func (s *Service) CancelInvoice(ctx context.Context, id int64) (*EInvoice, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CancelInvoice"),
		zap.Int64("ID", id),
	)

	inv, err := getInvoice(ctx, s.db, &InvoiceQuery{ID: id})
	if err != nil {
		zlog.Error("Failed to get invoice", zap.Error(err))
		return nil, err
	}

	inv.Cancelled = true
	if err := saveInvoice(ctx, s.db, inv); err != nil {
		zlog.Error("Failed to save invoice", zap.Error(err))
		return nil, err
	}

	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, query *InvoiceQuery) (*EInvoice, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetInvoice"),
		zap.Int64("ID", query.ID),
	)

	inv, err := getInvoice(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to get invoice", zap.Error(err))
		return nil, err
	}

	return inv, nil
}

func (s *Service) ListInvoices(ctx context.Context, query *InvoiceQuery) (*ListInvoicesResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListInvoices"))

	invoices, err := listInvoices(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list invoices", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(invoices)); l > 0 && l >= pager.Size(query.PageSize) {
		last := invoices[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.InvoiceNo,
			Time: last.CreatedAt,
		})
	}

	return &ListInvoicesResult{
		Invoices:      invoices,
		NextPageToken: nextPageToken,
	}, nil
}

// applyReq fills the invoice's figures from the request: tax heads on the
// taxable value, cess on top, and the bill amount net of deductions.
func applyReq(inv *EInvoice, req *InvoiceReq) {
	split := gst.SplitTax(req.TaxableValue, req.CGSTPct, req.SGSTPct, req.IGSTPct)

	inv.Site = req.Site
	inv.Month = req.Month
	inv.Year = req.Year
	inv.BuyerName = req.BuyerName
	inv.BuyerGSTIN = req.BuyerGSTIN
	inv.BuyerAddress = req.BuyerAddress
	inv.TaxableValue = money.Round2(req.TaxableValue)
	inv.CGSTPct = req.CGSTPct
	inv.SGSTPct = req.SGSTPct
	inv.IGSTPct = req.IGSTPct
	inv.CGST = split.CGST
	inv.SGST = split.SGST
	inv.IGST = split.IGST
	inv.Cess = money.Round2(req.Cess)
	inv.Total = money.Sum(inv.TaxableValue, split.Total, inv.Cess)
	inv.Deduction = money.Round2(req.Deduction)
	inv.DeductionNarration = req.DeductionNarration
	inv.BillAmount = money.Round2(inv.Total.Sub(inv.Deduction))
}
