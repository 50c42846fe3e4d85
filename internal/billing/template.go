// Package billing produces service bills for client sites: a reusable rate
// template applied over gross wages, line items, payments received, and the
// amount-in-words rendering that goes on the printed bill.
package billing

import (
	"time"

	"github.com/arush420/Project-X/internal/money"
	"github.com/shopspring/decimal"
	edpb "google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	rpcstatus "google.golang.org/grpc/status"
)

// Template is a named billing rule set. Bills reference a template but store
// their own computed totals, so editing a template changes future bills only.
type Template struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	ESIRate           decimal.Decimal `json:"esiRate"`
	ServiceChargeRate decimal.Decimal `json:"serviceChargeRate"`
	CGSTRate          decimal.Decimal `json:"cgstRate"`
	SGSTRate          decimal.Decimal `json:"sgstRate"`
	IGSTRate          decimal.Decimal `json:"igstRate"`

	ApplyESI           bool `json:"applyEsi"`
	ApplyServiceCharge bool `json:"applyServiceCharge"`
	ApplyCGSTSGST      bool `json:"applyCgstSgst"`
	ApplyIGST          bool `json:"applyIgst"`

	// RoundToNearest rounds the bill total to a multiple of this increment,
	// 0.01 for paise, 1 for whole rupees, 5 for five-rupee rounding. Zero
	// disables rounding.
	RoundToNearest decimal.Decimal `json:"roundToNearest"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TemplateReq struct {
	ID   int64  `json:"-" param:"id"`
	Name string `json:"name"`

	ESIRate           decimal.Decimal `json:"esiRate"`
	ServiceChargeRate decimal.Decimal `json:"serviceChargeRate"`
	CGSTRate          decimal.Decimal `json:"cgstRate"`
	SGSTRate          decimal.Decimal `json:"sgstRate"`
	IGSTRate          decimal.Decimal `json:"igstRate"`

	ApplyESI           bool `json:"applyEsi"`
	ApplyServiceCharge bool `json:"applyServiceCharge"`
	ApplyCGSTSGST      bool `json:"applyCgstSgst"`
	ApplyIGST          bool `json:"applyIgst"`

	RoundToNearest decimal.Decimal `json:"roundToNearest"`
}

// Validate checks the template at edit time. The intra-state and inter-state
// tax modes are mutually exclusive here; Apply does not recheck.
func (r *TemplateReq) Validate() error {
	violations := make([]*edpb.BadRequest_FieldViolation, 0)

	if r.Name == "" {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "name",
			Description: "Name must not be empty",
		})
	}
	if r.ApplyCGSTSGST && r.ApplyIGST {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "applyIgst",
			Description: "CGST/SGST and IGST must not both be applied on one template",
		})
	}
	for field, rate := range map[string]decimal.Decimal{
		"esiRate":           r.ESIRate,
		"serviceChargeRate": r.ServiceChargeRate,
		"cgstRate":          r.CGSTRate,
		"sgstRate":          r.SGSTRate,
		"igstRate":          r.IGSTRate,
	} {
		if rate.IsNegative() {
			violations = append(violations, &edpb.BadRequest_FieldViolation{
				Field:       field,
				Description: "Rate must not be negative",
			})
		}
	}
	if r.RoundToNearest.IsNegative() {
		violations = append(violations, &edpb.BadRequest_FieldViolation{
			Field:       "roundToNearest",
			Description: "Round to nearest must not be negative",
		})
	}

	if len(violations) > 0 {
		s, _ := rpcstatus.New(
			codes.InvalidArgument,
			"Bill template is not valid or incomplete. Please check the errors and try again, see details for more information.",
		).WithDetails(&edpb.BadRequest{
			FieldViolations: violations,
		})

		return s.Err()
	}

	return nil
}

// Totals is the money computed by applying a template over gross wages.
// RoundingDifference is RoundedTotal minus Total, kept for audit display.
type Totals struct {
	TaxableValue       decimal.Decimal `json:"taxableValue"`
	CGST               decimal.Decimal `json:"cgst"`
	SGST               decimal.Decimal `json:"sgst"`
	IGST               decimal.Decimal `json:"igst"`
	Total              decimal.Decimal `json:"total"`
	RoundedTotal       decimal.Decimal `json:"roundedTotal"`
	RoundingDifference decimal.Decimal `json:"roundingDifference"`
}

// Apply runs the template over gross wages. The steps run in a fixed order:
// ESI and service charge are loaded on the taxable value as percentages of
// the original gross wages, then tax is computed on the loaded taxable value,
// then the total is rounded to the template's increment.
func Apply(t *Template, grossWages decimal.Decimal) Totals {
	taxable := grossWages
	if t.ApplyESI {
		taxable = taxable.Add(money.Percent(grossWages, t.ESIRate))
	}
	if t.ApplyServiceCharge {
		taxable = taxable.Add(money.Percent(grossWages, t.ServiceChargeRate))
	}
	taxable = money.Round2(taxable)

	var cgst, sgst, igst decimal.Decimal
	switch {
	case t.ApplyCGSTSGST:
		cgst = money.Percent(taxable, t.CGSTRate)
		sgst = money.Percent(taxable, t.SGSTRate)
	case t.ApplyIGST:
		igst = money.Percent(taxable, t.IGSTRate)
	}

	total := money.Sum(taxable, cgst, sgst, igst)

	rounded := total
	if t.RoundToNearest.IsPositive() {
		rounded = money.RoundToNearest(total, t.RoundToNearest)
	}

	return Totals{
		TaxableValue:       taxable,
		CGST:               cgst,
		SGST:               sgst,
		IGST:               igst,
		Total:              total,
		RoundedTotal:       rounded,
		RoundingDifference: rounded.Sub(total),
	}
}
