package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/arush420/Project-X/internal/advance"
	"github.com/arush420/Project-X/internal/attendance"
	"github.com/arush420/Project-X/internal/billing"
	"github.com/arush420/Project-X/internal/company"
	"github.com/arush420/Project-X/internal/employee"
	"github.com/arush420/Project-X/internal/invoice"
	"github.com/arush420/Project-X/internal/payroll"
	"github.com/arush420/Project-X/internal/purchase"
	"github.com/arush420/Project-X/internal/types"
	"github.com/arush420/Project-X/internal/vendor"
	"github.com/labstack/echo/v4"
	edPb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcStatus "google.golang.org/grpc/status"
)

type Server struct {
	employee   *employee.Service
	attendance *attendance.Service
	advance    *advance.Service
	payroll    *payroll.Service
	purchase   *purchase.Service
	invoice    *invoice.Service
	billing    *billing.Service
	company    *company.Service
	vendor     *vendor.Service
}

func NewServer(
	employee *employee.Service,
	attendance *attendance.Service,
	advance *advance.Service,
	payroll *payroll.Service,
	purchase *purchase.Service,
	invoice *invoice.Service,
	billing *billing.Service,
	company *company.Service,
	vendor *vendor.Service,
) (*Server, error) {
	if employee == nil {
		return nil, errors.New("employee service is nil")
	}
	if attendance == nil {
		return nil, errors.New("attendance service is nil")
	}
	if advance == nil {
		return nil, errors.New("advance service is nil")
	}
	if payroll == nil {
		return nil, errors.New("payroll service is nil")
	}
	if purchase == nil {
		return nil, errors.New("purchase service is nil")
	}
	if invoice == nil {
		return nil, errors.New("invoice service is nil")
	}
	if billing == nil {
		return nil, errors.New("billing service is nil")
	}
	if company == nil {
		return nil, errors.New("company service is nil")
	}
	if vendor == nil {
		return nil, errors.New("vendor service is nil")
	}

	return &Server{
		employee:   employee,
		attendance: attendance,
		advance:    advance,
		payroll:    payroll,
		purchase:   purchase,
		invoice:    invoice,
		billing:    billing,
		company:    company,
		vendor:     vendor,
	}, nil
}

func (s *Server) Install(e *echo.Echo, mws ...echo.MiddlewareFunc) error {
	if e == nil {
		return errors.New("echo is nil")
	}

	v1 := e.Group("/v1")

	v1.POST("/employees", s.createEmployee, mws...)
	v1.GET("/employees", s.listEmployees, mws...)
	v1.GET("/employees/:id", s.getEmployeeByID, mws...)
	v1.PUT("/employees/:id", s.updateEmployee, mws...)
	v1.POST("/files/employees", s.uploadEmployees, mws...)

	v1.POST("/attendances", s.recordAttendance, mws...)
	v1.GET("/attendances", s.listAttendances, mws...)
	v1.POST("/files/attendances", s.uploadAttendances, mws...)

	v1.POST("/advances/transactions", s.addAdvanceTransaction, mws...)
	v1.GET("/advances/transactions", s.listAdvanceTransactions, mws...)
	v1.GET("/advances/:code/balance", s.getAdvanceBalance, mws...)

	v1.POST("/staff-salaries", s.createStaffSalary, mws...)
	v1.GET("/staff-salaries", s.listStaffSalaries, mws...)
	v1.GET("/staff-salaries/:id", s.getStaffSalary, mws...)
	v1.PUT("/staff-salaries/:id", s.updateStaffSalary, mws...)

	v1.POST("/payrolls", s.generatePayroll, mws...)
	v1.POST("/payrolls/salaries/:code/regenerate", s.regenerateSalary, mws...)
	v1.GET("/payrolls/salaries", s.listSalaries, mws...)
	v1.GET("/payrolls/salaries/:id", s.getSalary, mws...)
	v1.GET("/payrolls/totals", s.getMonthlyTotals, mws...)
	v1.GET("/payrolls/export", s.exportSalaries, mws...)

	v1.POST("/purchases", s.createPurchase, mws...)
	v1.GET("/purchases", s.listPurchases, mws...)
	v1.GET("/purchases/:id", s.getPurchase, mws...)
	v1.PUT("/purchases/:id", s.updatePurchase, mws...)

	v1.POST("/invoices", s.createInvoice, mws...)
	v1.GET("/invoices", s.listInvoices, mws...)
	v1.GET("/invoices/:id", s.getInvoice, mws...)
	v1.PUT("/invoices/:id", s.updateInvoice, mws...)
	v1.POST("/invoices/:id/cancel", s.cancelInvoice, mws...)

	v1.POST("/billing/templates", s.createTemplate, mws...)
	v1.GET("/billing/templates", s.listTemplates, mws...)
	v1.GET("/billing/templates/:id", s.getTemplate, mws...)
	v1.PUT("/billing/templates/:id", s.updateTemplate, mws...)

	v1.POST("/billing/bills", s.createBill, mws...)
	v1.GET("/billing/bills", s.listBills, mws...)
	v1.GET("/billing/bills/:id", s.getBill, mws...)
	v1.PUT("/billing/bills/:id", s.updateBill, mws...)
	v1.POST("/billing/payments", s.recordPayment, mws...)
	v1.GET("/billing/bills/:id/payments", s.listPayments, mws...)

	v1.POST("/companies", s.saveCompany, mws...)
	v1.GET("/companies", s.listCompanies, mws...)
	v1.GET("/companies/:id", s.getCompany, mws...)

	v1.POST("/vendors", s.createVendor, mws...)
	v1.GET("/vendors", s.listVendors, mws...)
	v1.GET("/vendors/:id", s.getVendor, mws...)
	v1.PUT("/vendors/:id", s.updateVendor, mws...)

	return nil
}

func badJSON() error {
	s, _ := rpcStatus.New(codes.InvalidArgument, "Request body must be a valid JSON.").
		WithDetails(&edPb.ErrorInfo{
			Reason: "BINDING_ERROR",
			Domain: "http",
		})

	return s.Err()
}

func badParam() error {
	s, _ := rpcStatus.New(codes.InvalidArgument, "Request parameters must be a valid type.").
		WithDetails(&edPb.ErrorInfo{
			Reason: "BINDING_ERROR",
			Domain: "http",
		})

	return s.Err()
}

func missingFile() error {
	s, _ := rpcStatus.New(codes.InvalidArgument, "File must not be empty.").
		WithDetails(&edPb.BadRequest{
			FieldViolations: []*edPb.BadRequest_FieldViolation{
				{
					Field:       "file",
					Description: "File must not be empty.",
				},
			},
		})

	return s.Err()
}

func (s *Server) createEmployee(c echo.Context) error {
	req := new(employee.EmployeeReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	emp, err := s.employee.CreateEmployee(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"employee": emp,
	})
}

func (s *Server) updateEmployee(c echo.Context) error {
	req := new(employee.EmployeeReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	emp, err := s.employee.UpdateEmployee(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"employee": emp,
	})
}

func (s *Server) getEmployeeByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badParam()
	}

	emp, err := s.employee.GetEmployeeByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"employee": emp,
	})
}

func (s *Server) listEmployees(c echo.Context) error {
	req := new(employee.EmployeeQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	employees, err := s.employee.ListEmployees(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, employees)
}

func (s *Server) uploadEmployees(c echo.Context) error {
	f, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return missingFile()
	}
	if err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	result, err := s.employee.UploadEmployees(c.Request().Context(), &employee.UploadReq{
		OriginalName: f.Filename,
		ReadSeeker:   src,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) recordAttendance(c echo.Context) error {
	req := new(attendance.AttendanceReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	att, err := s.attendance.RecordAttendance(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"attendance": att,
	})
}

func (s *Server) listAttendances(c echo.Context) error {
	req := new(attendance.AttendanceQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	attendances, err := s.attendance.ListAttendances(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attendances)
}

func (s *Server) uploadAttendances(c echo.Context) error {
	f, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return missingFile()
	}
	if err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	result, err := s.attendance.UploadAttendances(c.Request().Context(), &attendance.UploadReq{
		OriginalName: f.Filename,
		ReadSeeker:   src,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) addAdvanceTransaction(c echo.Context) error {
	req := new(advance.TransactionReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	tx, err := s.advance.AddTransaction(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"transaction": tx,
	})
}

func (s *Server) listAdvanceTransactions(c echo.Context) error {
	req := new(advance.TransactionQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	txs, err := s.advance.ListTransactions(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, txs)
}

func (s *Server) getAdvanceBalance(c echo.Context) error {
	code := c.Param("code")

	balance, err := s.advance.Balance(c.Request().Context(), code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"employeeCode": code,
		"balance":      balance,
	})
}

func (s *Server) createStaffSalary(c echo.Context) error {
	req := new(advance.StaffSalaryReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	salary, err := s.advance.CreateStaffSalary(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"staffSalary": salary,
	})
}

func (s *Server) updateStaffSalary(c echo.Context) error {
	req := new(advance.StaffSalaryReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	salary, err := s.advance.UpdateStaffSalary(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"staffSalary": salary,
	})
}

func (s *Server) getStaffSalary(c echo.Context) error {
	req := new(advance.StaffSalaryQuery)
	if err := c.Bind(req); err != nil {
		return badParam()
	}

	salary, err := s.advance.GetStaffSalary(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"staffSalary": salary,
	})
}

func (s *Server) listStaffSalaries(c echo.Context) error {
	req := new(advance.StaffSalaryQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	salaries, err := s.advance.ListStaffSalaries(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, salaries)
}

func (s *Server) generatePayroll(c echo.Context) error {
	req := new(payroll.GenerateReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	result, err := s.payroll.GeneratePayroll(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) regenerateSalary(c echo.Context) error {
	req := new(struct {
		Month      types.Month `json:"month"`
		Year       int         `json:"year"`
		DaysWorked int         `json:"daysWorked"`
	})
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	salary, err := s.payroll.RegenerateSalary(
		c.Request().Context(),
		c.Param("code"),
		types.Period{Month: req.Month, Year: req.Year},
		req.DaysWorked,
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"salary": salary,
	})
}

func (s *Server) listSalaries(c echo.Context) error {
	req := new(payroll.SalaryQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	salaries, err := s.payroll.ListSalaries(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, salaries)
}

func (s *Server) getSalary(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badParam()
	}

	salary, err := s.payroll.GetSalary(c.Request().Context(), &payroll.SalaryQuery{ID: id})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"salary": salary,
	})
}

func (s *Server) getMonthlyTotals(c echo.Context) error {
	period, err := periodFromQuery(c)
	if err != nil {
		return badParam()
	}

	totals, err := s.payroll.GetMonthlyTotals(c.Request().Context(), period)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totals": totals,
	})
}

func (s *Server) exportSalaries(c echo.Context) error {
	period, err := periodFromQuery(c)
	if err != nil {
		return badParam()
	}

	ctx := c.Request().Context()
	switch c.QueryParam("format") {
	case "csv":
		buf, err := s.payroll.ExportSalariesToCSV(ctx, period)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("salaries-%s.csv", period.String())
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Blob(http.StatusOK, "text/csv", buf.Bytes())

	default:
		buf, err := s.payroll.ExportSalariesToExcel(ctx, period)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("salaries-%s.xlsx", period.String())
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

func (s *Server) createPurchase(c echo.Context) error {
	req := new(purchase.PurchaseReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	p, err := s.purchase.CreatePurchase(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchase": p,
	})
}

func (s *Server) updatePurchase(c echo.Context) error {
	req := new(purchase.PurchaseReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	p, err := s.purchase.UpdatePurchase(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchase": p,
	})
}

func (s *Server) getPurchase(c echo.Context) error {
	req := new(purchase.PurchaseQuery)
	if err := c.Bind(req); err != nil {
		return badParam()
	}

	p, err := s.purchase.GetPurchase(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchase": p,
	})
}

func (s *Server) listPurchases(c echo.Context) error {
	req := new(purchase.PurchaseQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	purchases, err := s.purchase.ListPurchases(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, purchases)
}

func (s *Server) createInvoice(c echo.Context) error {
	req := new(invoice.InvoiceReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	inv, err := s.invoice.CreateInvoice(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"invoice": inv,
	})
}

func (s *Server) updateInvoice(c echo.Context) error {
	req := new(invoice.InvoiceReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	inv, err := s.invoice.UpdateInvoice(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"invoice": inv,
	})
}

func (s *Server) cancelInvoice(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badParam()
	}

	inv, err := s.invoice.CancelInvoice(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"invoice": inv,
	})
}

func (s *Server) getInvoice(c echo.Context) error {
	req := new(invoice.InvoiceQuery)
	if err := c.Bind(req); err != nil {
		return badParam()
	}

	inv, err := s.invoice.GetInvoice(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"invoice": inv,
	})
}

func (s *Server) listInvoices(c echo.Context) error {
	req := new(invoice.InvoiceQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	invoices, err := s.invoice.ListInvoices(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, invoices)
}

func (s *Server) createTemplate(c echo.Context) error {
	req := new(billing.TemplateReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	t, err := s.billing.CreateTemplate(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"template": t,
	})
}

func (s *Server) updateTemplate(c echo.Context) error {
	req := new(billing.TemplateReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	t, err := s.billing.UpdateTemplate(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"template": t,
	})
}

func (s *Server) getTemplate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badParam()
	}

	t, err := s.billing.GetTemplate(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"template": t,
	})
}

func (s *Server) listTemplates(c echo.Context) error {
	templates, err := s.billing.ListTemplates(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"templates": templates,
	})
}

func (s *Server) createBill(c echo.Context) error {
	req := new(billing.BillReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	b, err := s.billing.CreateBill(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bill": b,
	})
}

func (s *Server) updateBill(c echo.Context) error {
	req := new(billing.BillReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	b, err := s.billing.UpdateBill(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bill": b,
	})
}

func (s *Server) getBill(c echo.Context) error {
	req := new(billing.BillQuery)
	if err := c.Bind(req); err != nil {
		return badParam()
	}

	b, err := s.billing.GetBill(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bill": b,
	})
}

func (s *Server) listBills(c echo.Context) error {
	req := new(billing.BillQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	bills, err := s.billing.ListBills(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bills)
}

func (s *Server) recordPayment(c echo.Context) error {
	req := new(billing.PaymentReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	p, err := s.billing.RecordPayment(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"payment": p,
	})
}

func (s *Server) listPayments(c echo.Context) error {
	req := new(billing.PaymentQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	payments, err := s.billing.ListPayments(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payments)
}

func (s *Server) saveCompany(c echo.Context) error {
	req := new(company.CompanyReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	comp, err := s.company.SaveCompany(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"company": comp,
	})
}

func (s *Server) getCompany(c echo.Context) error {
	req := new(company.CompanyQuery)
	if err := c.Bind(req); err != nil {
		return badParam()
	}

	comp, err := s.company.GetCompany(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"company": comp,
	})
}

func (s *Server) listCompanies(c echo.Context) error {
	req := new(company.CompanyQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	companies, err := s.company.ListCompanies(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, companies)
}

func (s *Server) createVendor(c echo.Context) error {
	req := new(vendor.VendorReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	v, err := s.vendor.CreateVendor(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vendor": v,
	})
}

func (s *Server) updateVendor(c echo.Context) error {
	req := new(vendor.VendorReq)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	v, err := s.vendor.UpdateVendor(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vendor": v,
	})
}

func (s *Server) getVendor(c echo.Context) error {
	req := new(vendor.VendorQuery)
	if err := c.Bind(req); err != nil {
		return badParam()
	}

	v, err := s.vendor.GetVendor(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"vendor": v,
	})
}

func (s *Server) listVendors(c echo.Context) error {
	req := new(vendor.VendorQuery)
	if err := c.Bind(req); err != nil {
		return badJSON()
	}

	vendors, err := s.vendor.ListVendors(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, vendors)
}

func periodFromQuery(c echo.Context) (types.Period, error) {
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return types.Period{}, err
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return types.Period{}, err
	}

	period := types.Period{Month: types.Month(month), Year: year}
	if !period.Valid() {
		return types.Period{}, errors.New("invalid period")
	}

	return period, nil
}
