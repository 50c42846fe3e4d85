package payroll

import (
	"testing"

	"github.com/arush420/Project-X/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testProfile() *WageProfile {
	return &WageProfile{
		EmployeeCode: "EMP001",
		Name:         "Ramesh Kumar",
		Basic:        dec("15000"),
		Transport:    dec("1000"),
		Canteen:      dec("500"),
		PFRate:       dec("12"),
		ESICRate:     dec("0.75"),
	}
}

func TestComputeGross(t *testing.T) {
	t.Parallel()

	gross, err := ComputeGross(testProfile().Components(), 26, 30)
	require.NoError(t, err)
	require.True(t, gross.Equal(dec("13866.67")), "got %s", gross)

	full, err := ComputeGross(testProfile().Components(), 30, 30)
	require.NoError(t, err)
	require.True(t, full.Equal(dec("16000")), "got %s", full)

	zero, err := ComputeGross(testProfile().Components(), 0, 30)
	require.NoError(t, err)
	require.True(t, zero.IsZero(), "got %s", zero)
}

func TestComputeGrossInvalidPeriod(t *testing.T) {
	t.Parallel()

	_, err := ComputeGross(testProfile().Components(), 26, 0)
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = ComputeGross(testProfile().Components(), 26, -5)
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestComputeGrossClampsDaysWorked(t *testing.T) {
	t.Parallel()

	over, err := ComputeGross(testProfile().Components(), 35, 30)
	require.NoError(t, err)
	require.True(t, over.Equal(dec("16000")), "got %s", over)

	negative, err := ComputeGross(testProfile().Components(), -3, 30)
	require.NoError(t, err)
	require.True(t, negative.IsZero(), "got %s", negative)
}

func TestComputeDeductions(t *testing.T) {
	t.Parallel()

	pf, esic := ComputeDeductions(dec("15000"), dec("12"), dec("0.75"))
	require.True(t, pf.Equal(dec("1800.00")), "got %s", pf)
	require.True(t, esic.Equal(dec("112.50")), "got %s", esic)
}

func TestComputeDeductionsNegativeRate(t *testing.T) {
	t.Parallel()

	pf, esic := ComputeDeductions(dec("15000"), dec("-12"), dec("-1"))
	require.True(t, pf.IsZero())
	require.True(t, esic.IsZero())
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	salary, err := Generate(&GenerateInput{
		Profile:     testProfile(),
		Period:      types.Period{Month: types.June, Year: 2025},
		DaysInMonth: 30,
		DaysWorked:  26,
	})
	require.NoError(t, err)

	require.Equal(t, "EMP001", salary.EmployeeCode)
	require.Equal(t, types.June, salary.Month)
	require.Equal(t, 2025, salary.Year)
	require.True(t, salary.GrossSalary.Equal(dec("13866.67")), "gross %s", salary.GrossSalary)
	require.True(t, salary.PF.Equal(dec("1800.00")), "pf %s", salary.PF)
	require.True(t, salary.ESIC.Equal(dec("112.50")), "esic %s", salary.ESIC)
	require.True(t, salary.NetSalary.Equal(dec("11454.17")), "net %s", salary.NetSalary)
}

func TestGenerateNetIsGrossMinusDeductions(t *testing.T) {
	t.Parallel()

	salary, err := Generate(&GenerateInput{
		Profile:          testProfile(),
		Period:           types.Period{Month: types.June, Year: 2025},
		DaysInMonth:      30,
		DaysWorked:       22,
		AdvanceDeduction: dec("750"),
	})
	require.NoError(t, err)

	deductions := salary.PF.Add(salary.ESIC).Add(salary.Canteen).Add(salary.AdvanceDeduction)
	require.True(t, salary.NetSalary.Equal(salary.GrossSalary.Sub(deductions)),
		"net %s, gross %s, deductions %s", salary.NetSalary, salary.GrossSalary, deductions)
}

func TestGenerateIsDeterministic(t *testing.T) {
	t.Parallel()

	in := &GenerateInput{
		Profile:          testProfile(),
		Period:           types.Period{Month: types.June, Year: 2025},
		DaysInMonth:      30,
		DaysWorked:       26,
		AdvanceDeduction: dec("500"),
	}

	first, err := Generate(in)
	require.NoError(t, err)
	second, err := Generate(in)
	require.NoError(t, err)

	require.True(t, first.GrossSalary.Equal(second.GrossSalary))
	require.True(t, first.NetSalary.Equal(second.NetSalary))
	require.True(t, first.PF.Equal(second.PF))
	require.True(t, first.ESIC.Equal(second.ESIC))
}
