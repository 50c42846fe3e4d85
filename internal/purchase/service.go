package purchase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/arush420/Project-X/internal/database"
	"github.com/arush420/Project-X/internal/gst"
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

func (s *Service) CreatePurchase(ctx context.Context, req *PurchaseReq) (*Purchase, error) {
	zlog := s.zlog.With(
		zap.String("Method", "CreatePurchase"),
		zap.String("BillNo", req.BillNo),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Purchase{
		VendorGSTIN: req.VendorGSTIN,
		VendorName:  req.VendorName,
		BillNo:      req.BillNo,
		Date:        req.Date,
		Category:    req.Category,
		PayMode:     req.PayMode,
		Items:       computeItems(req.Items),
		CreatedAt:   time.Now(),
	}
	p.TotalAmount = sumItemNets(p.Items)

	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return savePurchaseTx(ctx, tx, p)
	})
	if err != nil {
		zlog.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	return p, nil
}

// UpdatePurchase replaces the purchase's fields and line items. Line amounts
// and the parent total are recomputed from the submitted lines.
func (s *Service) UpdatePurchase(ctx context.Context, req *PurchaseReq) (*Purchase, error) {
	zlog := s.zlog.With(
		zap.String("Method", "UpdatePurchase"),
		zap.Int64("ID", req.ID),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := getPurchase(ctx, s.db, &PurchaseQuery{ID: req.ID})
	if err != nil {
		zlog.Error("Failed to get purchase", zap.Error(err))
		return nil, err
	}

	p.VendorGSTIN = req.VendorGSTIN
	p.VendorName = req.VendorName
	p.BillNo = req.BillNo
	p.Date = req.Date
	p.Category = req.Category
	p.PayMode = req.PayMode
	p.Items = computeItems(req.Items)
	p.TotalAmount = sumItemNets(p.Items)

	err = database.WithTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return savePurchaseTx(ctx, tx, p)
	})
	if err != nil {
		zlog.Error("Failed to save purchase", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (s *Service) GetPurchase(ctx context.Context, query *PurchaseQuery) (*Purchase, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetPurchase"),
		zap.Int64("ID", query.ID),
	)

	p, err := getPurchase(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to get purchase", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (s *Service) ListPurchases(ctx context.Context, query *PurchaseQuery) (*ListPurchasesResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListPurchases"))

	purchases, err := listPurchases(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list purchases", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(purchases)); l > 0 && l >= pager.Size(query.PageSize) {
		last := purchases[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.BillNo,
			Time: last.CreatedAt,
		})
	}

	return &ListPurchasesResult{
		Purchases:     purchases,
		NextPageToken: nextPageToken,
	}, nil
}

func computeItems(lines []*gst.LineItem) []*Item {
	items := make([]*Item, 0, len(lines))
	for _, line := range lines {
		item := &Item{LineItem: *line}
		item.compute()
		items = append(items, item)
	}
	return items
}

func sumItemNets(items []*Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Net)
	}
	return money.Round2(total)
}
