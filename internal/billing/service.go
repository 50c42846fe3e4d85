package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arush420/Project-X/internal/database"
	"github.com/arush420/Project-X/internal/gen"
	"github.com/arush420/Project-X/internal/money"
	"github.com/arush420/Project-X/internal/pager"
	"github.com/shopspring/decimal"
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

func (s *Service) CreateTemplate(ctx context.Context, req *TemplateReq) (*Template, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CreateTemplate"),
		zap.String("Name", req.Name),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	t := templateFromReq(req)
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := saveTemplate(ctx, s.db, t); err != nil {
		zlog.Error("Failed to save bill template", zap.Error(err))
		return nil, err
	}

	return t, nil
}

// UpdateTemplate edits a template. Bills already computed with the previous
// rates keep their stored totals.
func (s *Service) UpdateTemplate(ctx context.Context, req *TemplateReq) (*Template, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UpdateTemplate"),
		zap.Int64("ID", req.ID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := getTemplate(ctx, s.db, req.ID)
	if err != nil {
		zlog.Error("Failed to get bill template", zap.Error(err))
		return nil, err
	}

	updated := templateFromReq(req)
	updated.ID = t.ID
	updated.CreatedAt = t.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := saveTemplate(ctx, s.db, updated); err != nil {
		zlog.Error("Failed to save bill template", zap.Error(err))
		return nil, err
	}

	return updated, nil
}

func (s *Service) GetTemplate(ctx context.Context, id int64) (*Template, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetTemplate"),
		zap.Int64("ID", id),
	)

	t, err := getTemplate(ctx, s.db, id)
	if err != nil {
		zlog.Error("Failed to get bill template", zap.Error(err))
		return nil, err
	}

	return t, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]*Template, error) {
	zlog := s.zlog.With(zap.String("Method", "ListTemplates"))

	templates, err := listTemplates(ctx, s.db)
	if err != nil {
		zlog.Error("Failed to list bill templates", zap.Error(err))
		return nil, err
	}

	return templates, nil
}

// CreateBill raises a service bill: the items are summed into gross wages,
// the referenced template is applied, and the computed totals are stored on
// the bill.
func (s *Service) CreateBill(ctx context.Context, req *BillReq) (*ServiceBill, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CreateBill"),
		zap.String("ClientName", req.ClientName),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := &ServiceBill{
		BillNo:    gen.Number("BILL"),
		Date:      req.Date,
		CreatedAt: time.Now(),
	}

	if err := s.computeBill(ctx, b, req); err != nil {
		zlog.Error("Failed to compute bill", zap.Error(err))
		return nil, err
	}

	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return saveBillTx(ctx, tx, b)
	})
	if err != nil {
		zlog.Error("Failed to save service bill", zap.Error(err))
		return nil, err
	}

	return b, nil
}

// UpdateBill replaces the bill's items and recomputes its totals against the
// template's current rates.
func (s *Service) UpdateBill(ctx context.Context, req *BillReq) (*ServiceBill, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UpdateBill"),
		zap.Int64("ID", req.ID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := getBill(ctx, s.db, &BillQuery{ID: req.ID})
	if err != nil {
		zlog.Error("Failed to get service bill", zap.Error(err))
		return nil, err
	}

	b.Date = req.Date
	if err := s.computeBill(ctx, b, req); err != nil {
		zlog.Error("Failed to compute bill", zap.Error(err))
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return saveBillTx(ctx, tx, b)
	})
	if err != nil {
		zlog.Error("Failed to save service bill", zap.Error(err))
		return nil, err
	}

	return b, nil
}

func (s *Service) GetBill(ctx context.Context, query *BillQuery) (*ServiceBill, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetBill"),
		zap.Int64("ID", query.ID),
	)

	b, err := getBill(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to get service bill", zap.Error(err))
		return nil, err
	}

	return b, nil
}

func (s *Service) ListBills(ctx context.Context, query *BillQuery) (*ListBillsResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListBills"))

	bills, err := listBills(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list service bills", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(bills)); l > 0 && l >= pager.Size(query.PageSize) {
		last := bills[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.BillNo,
			Time: last.CreatedAt,
		})
	}

	return &ListBillsResult{
		Bills:         bills,
		NextPageToken: nextPageToken,
	}, nil
}

func (s *Service) RecordPayment(ctx context.Context, req *PaymentReq) (*Payment, error) {
	zlog := s.zlog.With(
		zap.String("Method", "RecordPayment"),
		zap.Int64("BillID", req.BillID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := getBill(ctx, s.db, &BillQuery{ID: req.BillID}); err != nil {
		zlog.Error("Failed to get service bill", zap.Error(err))
		return nil, err
	}

	p := &Payment{
		BillID:      req.BillID,
		CompanyName: req.CompanyName,
		Amount:      money.Round2(req.Amount),
		Mode:        req.Mode,
		Date:        req.Date,
		Comment:     req.Comment,
		CreatedAt:   time.Now(),
	}

	if err := savePayment(ctx, s.db, p); err != nil {
		zlog.Error("Failed to save payment", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (s *Service) ListPayments(ctx context.Context, query *PaymentQuery) (*ListPaymentsResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListPayments"))

	payments, err := listPayments(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list payments", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(payments)); l > 0 && l >= pager.Size(query.PageSize) {
		last := payments[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			Time: last.CreatedAt,
		})
	}

	return &ListPaymentsResult{
		Payments:      payments,
		NextPageToken: nextPageToken,
	}, nil
}

func (s *Service) computeBill(ctx context.Context, b *ServiceBill, req *BillReq) error {
	t, err := getTemplate(ctx, s.db, req.TemplateID)
	if err != nil {
		return err
	}

	items := make([]*BillItem, 0, len(req.Items))
	gross := decimal.Zero
	for i, item := range req.Items {
		amount := money.Round2(item.Amount)
		gross = gross.Add(amount)
		items = append(items, &BillItem{
			Position:    i + 1,
			Description: item.Description,
			Amount:      amount,
		})
	}

	b.TemplateID = t.ID
	b.ClientName = req.ClientName
	b.Site = req.Site
	b.Items = items
	b.Totals = Apply(t, money.Round2(gross))
	b.AmountInWords = AmountInWords(b.Totals.RoundedTotal)

	return nil
}

func templateFromReq(req *TemplateReq) *Template {
	return &Template{
		ID:                 req.ID,
		Name:               req.Name,
		ESIRate:            req.ESIRate,
		ServiceChargeRate:  req.ServiceChargeRate,
		CGSTRate:           req.CGSTRate,
		SGSTRate:           req.SGSTRate,
		IGSTRate:           req.IGSTRate,
		ApplyESI:           req.ApplyESI,
		ApplyServiceCharge: req.ApplyServiceCharge,
		ApplyCGSTSGST:      req.ApplyCGSTSGST,
		ApplyIGST:          req.ApplyIGST,
		RoundToNearest:     req.RoundToNearest,
	}
}
