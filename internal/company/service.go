package company

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

// SaveCompany upserts a company keyed on its code.
func (s *Service) SaveCompany(ctx context.Context, req *CompanyReq) (*Company, error) {
	zlog := s.zlog.With(
		zap.String("Method", "SaveCompany"),
		zap.String("Code", req.Code),
	)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Company{
		Code:              req.Code,
		Name:              req.Name,
		Address:           req.Address,
		GSTIN:             req.GSTIN,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		IFSC:              req.IFSC,
		ContactName:       req.ContactName,
		ContactPhone:      req.ContactPhone,
		ContactEmail:      req.ContactEmail,
		ServiceChargeRate: req.ServiceChargeRate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := saveCompany(ctx, s.db, c); err != nil {
		zlog.Error("Failed to save company", zap.Error(err))
		return nil, err
	}

	return c, nil
}

func (s *Service) GetCompany(ctx context.Context, query *CompanyQuery) (*Company, error) {
	zlog := s.zlog.With(
		zap.String("Method", "GetCompany"),
		zap.Int64("ID", query.ID),
	)

	c, err := getCompany(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to get company", zap.Error(err))
		return nil, err
	}

	return c, nil
}

func (s *Service) ListCompanies(ctx context.Context, query *CompanyQuery) (*ListCompaniesResult, error) {
	zlog := s.zlog.With(zap.String("Method", "ListCompanies"))

	companies, err := listCompanies(ctx, s.db, query)
	if err != nil {
		zlog.Error("Failed to list companies", zap.Error(err))
		return nil, err
	}

	var nextPageToken string
	if l := uint64(len(companies)); l > 0 && l >= pager.Size(query.PageSize) {
		last := companies[l-1]
		nextPageToken = pager.EncodeCursor(&pager.Cursor{
			ID:   last.Code,
			Time: last.CreatedAt,
		})
	}

	return &ListCompaniesResult{
		Companies:     companies,
		NextPageToken: nextPageToken,
	}, nil
}
