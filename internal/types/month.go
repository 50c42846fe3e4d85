package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Month is a calendar month, 1 through 12. It marshals and stores as the
// English month name.
type Month int

const (
	MonthUnSpecified Month = iota
	January
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = map[Month]string{
	January:   "January",
	February:  "February",
	March:     "March",
	April:     "April",
	May:       "May",
	June:      "June",
	July:      "July",
	August:    "August",
	September: "September",
	October:   "October",
	November:  "November",
	December:  "December",
}

var monthValues = map[string]Month{
	"January":   January,
	"February":  February,
	"March":     March,
	"April":     April,
	"May":       May,
	"June":      June,
	"July":      July,
	"August":    August,
	"September": September,
	"October":   October,
	"November":  November,
	"December":  December,
}

func (m Month) Valid() bool {
	return m >= January && m <= December
}

func (m Month) String() string {
	if v, ok := monthNames[m]; ok {
		return v
	}
	return fmt.Sprintf("Month(%d)", m)
}

func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Month) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	if v, err := strconv.Atoi(string(b)); err == nil {
		*m = Month(v)
		return nil
	}

	b = b[1 : len(b)-1]
	if v, ok := monthValues[string(b)]; ok {
		*m = v
		return nil
	}

	return fmt.Errorf("invalid month: %s", string(b))
}

func (m Month) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *Month) Scan(src any) error {
	if src == nil {
		return nil
	}

	switch src := src.(type) {
	case int64:
		*m = Month(src)
		return nil

	case string:
		if v, ok := monthValues[src]; ok {
			*m = v
			return nil
		}

	case []byte:
		if v, ok := monthValues[string(src)]; ok {
			*m = v
			return nil
		}
	}

	return fmt.Errorf("invalid month: %v", src)
}

// Period is a payroll period, one calendar month of one year.
type Period struct {
	Month Month `json:"month" query:"month"`
	Year  int   `json:"year" query:"year"`
}

func (p Period) Valid() bool {
	return p.Month.Valid() && p.Year >= 2000 && p.Year <= 2200
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// DaysIn returns the number of calendar days in the period.
func (p Period) DaysIn() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
