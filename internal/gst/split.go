// Package gst computes Goods and Services Tax amounts. Intra-state supplies
// split the tax between the central (CGST) and state (SGST) halves; inter
// state supplies carry the integrated tax (IGST) alone. Which rates apply is
// the caller's call; the arithmetic here does not enforce exclusivity.
package gst

import (
	"github.com/arush420/Project-X/internal/money"
	"github.com/shopspring/decimal"
)

// Split is the tax computed on a taxable amount, one figure per head.
// Each head is rounded to two decimal places independently so the stored
// figures always match what appears on the invoice.
type Split struct {
	CGST  decimal.Decimal `json:"cgst"`
	SGST  decimal.Decimal `json:"sgst"`
	IGST  decimal.Decimal `json:"igst"`
	Total decimal.Decimal `json:"total"`
}

// SplitTax computes each tax head as a percentage of the taxable amount.
// A zero rate yields a zero head. Total is the sum of the rounded heads.
func SplitTax(taxable, cgstPct, sgstPct, igstPct decimal.Decimal) Split {
	cgst := money.Percent(taxable, cgstPct)
	sgst := money.Percent(taxable, sgstPct)
	igst := money.Percent(taxable, igstPct)

	return Split{
		CGST:  cgst,
		SGST:  sgst,
		IGST:  igst,
		Total: money.Sum(cgst, sgst, igst),
	}
}

// LineItem is one purchased or invoiced line with its tax rates.
type LineItem struct {
	Description string          `json:"description"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Quantity    decimal.Decimal `json:"quantity"`
	CGSTPct     decimal.Decimal `json:"cgstPct"`
	SGSTPct     decimal.Decimal `json:"sgstPct"`
	IGSTPct     decimal.Decimal `json:"igstPct"`
}

// LineAmounts is the computed money on one line item.
type LineAmounts struct {
	Gross decimal.Decimal `json:"gross"`
	Tax   Split           `json:"tax"`
	Net   decimal.Decimal `json:"net"`
}

// Compute derives the line's amounts: gross is unit cost times quantity, tax
// is computed on the gross, and net is gross plus tax.
func (l *LineItem) Compute() LineAmounts {
	gross := money.Round2(l.UnitCost.Mul(l.Quantity))
	tax := SplitTax(gross, l.CGSTPct, l.SGSTPct, l.IGSTPct)

	return LineAmounts{
		Gross: gross,
		Tax:   tax,
		Net:   money.Round2(gross.Add(tax.Total)),
	}
}
