package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arush420/Project-X/internal/advance"
	"github.com/arush420/Project-X/internal/attendance"
	"github.com/arush420/Project-X/internal/billing"
	"github.com/arush420/Project-X/internal/company"
	"github.com/arush420/Project-X/internal/employee"
	"github.com/arush420/Project-X/internal/invoice"
	"github.com/arush420/Project-X/internal/payroll"
	"github.com/arush420/Project-X/internal/purchase"
	"github.com/arush420/Project-X/internal/server"
	"github.com/arush420/Project-X/internal/vendor"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/labstack/echo/v4"
	stdmw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"

	_ "github.com/denisenkom/go-mssqldb"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zlog, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)
	zlog.Info("Logger replaced in globals")
	zlog.Info("Logger initialized")

	db, err := sql.Open(
		"sqlserver",
		fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s&TrustServerCertificate=true",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	zlog.Info("Database connection established")

	employeeSvc, err := employee.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create employee service: %w", err)
	}
	zlog.Info("Employee service initialized")

	attendanceSvc, err := attendance.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create attendance service: %w", err)
	}
	zlog.Info("Attendance service initialized")

	advanceSvc, err := advance.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create advance service: %w", err)
	}
	zlog.Info("Advance service initialized")

	payrollSvc, err := payroll.NewService(ctx, db, zlog, employeeSvc, attendanceSvc, advanceSvc)
	if err != nil {
		return fmt.Errorf("failed to create payroll service: %w", err)
	}
	zlog.Info("Payroll service initialized")

	purchaseSvc, err := purchase.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create purchase service: %w", err)
	}
	zlog.Info("Purchase service initialized")

	invoiceSvc, err := invoice.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create invoice service: %w", err)
	}
	zlog.Info("Invoice service initialized")

	billingSvc, err := billing.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create billing service: %w", err)
	}
	zlog.Info("Billing service initialized")

	companySvc, err := company.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create company service: %w", err)
	}
	zlog.Info("Company service initialized")

	vendorSvc, err := vendor.NewService(ctx, db, zlog)
	if err != nil {
		return fmt.Errorf("failed to create vendor service: %w", err)
	}
	zlog.Info("Vendor service initialized")

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErr
	e.Use(httpLogger(zlog))
	e.Use(stdMws()...)

	serve := must(server.NewServer(
		employeeSvc,
		attendanceSvc,
		advanceSvc,
		payrollSvc,
		purchaseSvc,
		invoiceSvc,
		billingSvc,
		companySvc,
		vendorSvc,
	))
	if err := serve.Install(e); err != nil {
		return fmt.Errorf("failed to install routes: %w", err)
	}

	errCh := make(chan error)
	go func() {
		errCh <- e.Start(fmt.Sprintf(":%s", getEnv("PORT", "8890")))
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		zlog.Info("Received shutdown signal, shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		zlog.Info("Waiting for server to shut down...")
		if err := e.Shutdown(ctx); err != nil {
			zlog.Error("Error shutting down server", zap.Error(err))
			return err
		}
		zlog.Info("Server shut down gracefully")

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			zlog.Error("Error starting server", zap.Error(err))
			return err
		}
	}

	return nil
}

func getEnv(key string, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

func httpLogger(zlog *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := []zapcore.Field{
				zap.String("remote_ip", c.RealIP()),
				zap.String("host", req.Host),
				zap.String("request", fmt.Sprintf("%s %s", req.Method, req.RequestURI)),
				zap.Int("status", res.Status),
				zap.String("user_agent", req.UserAgent()),
			}

			id := req.Header.Get(echo.HeaderXRequestID)
			if id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			n := res.Status
			switch {
			case n >= 500:
				zlog.
					With(zap.Error(err)).
					Error("HTTP Error", fields...)

			case n >= 400:
				zlog.
					With(zap.Error(err)).
					Warn("HTTP Error", fields...)

			case n >= 300:
				zlog.
					Info("Redirect", fields...)

			default:
				zlog.
					Info("HTTP Request", fields...)
			}

			return nil
		}
	}
}

func stdMws() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		stdmw.RemoveTrailingSlash(),
		stdmw.Recover(),
		stdmw.CORSWithConfig((stdmw.CORSConfig{
			AllowOriginFunc: func(origin string) (bool, error) {
				return true, nil
			},
			AllowMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
				http.MethodPatch,
			},
			AllowCredentials: true,
			MaxAge:           3600,
		})),
		stdmw.Secure(),
		stdmw.RateLimiter(stdmw.NewRateLimiterMemoryStore(30)),
	}
}

func httpErr(err error, c echo.Context) {
	if s, ok := status.FromError(err); ok {
		writeStatus(c, s)
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		var s *status.Status
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			s = status.New(codes.NotFound, "Not found!")

		case http.StatusTooManyRequests:
			s = status.New(codes.ResourceExhausted, "Too many requests!")

		case http.StatusInternalServerError:
			s = status.New(codes.Internal, "An internal server error occurred!")

		default:
			s = status.New(codes.Unknown, "An unknown error occurred!")
		}

		writeStatus(c, s)
		return
	}

	writeStatus(c, status.New(codes.Internal, "An internal server error occurred!"))
}

func writeStatus(c echo.Context, s *status.Status) {
	jsonb, _ := protojson.Marshal(s.Proto())
	body := append([]byte(`{"error":`), jsonb...)
	body = append(body, '}')
	c.JSONBlob(runtime.HTTPStatusFromCode(s.Code()), body)
}

func newLogger() (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("02/01/2006 15:04:05 Z07:00"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	zlog, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return zlog, nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
