package types

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// PayMode is how an amount is paid out or settled.
type PayMode int

const (
	PayModeUnSpecified PayMode = iota
	PayModeBankTransfer
	PayModeCash
	PayModeUPI
	PayModeCheque
)

var payModeNames = map[PayMode]string{
	PayModeUnSpecified:  "UNSPECIFIED",
	PayModeBankTransfer: "BANK_TRANSFER",
	PayModeCash:         "CASH",
	PayModeUPI:          "UPI",
	PayModeCheque:       "CHEQUE",
}

var payModeValues = map[string]PayMode{
	"UNSPECIFIED":   PayModeUnSpecified,
	"BANK_TRANSFER": PayModeBankTransfer,
	"CASH":          PayModeCash,
	"UPI":           PayModeUPI,
	"CHEQUE":        PayModeCheque,
}

func (p PayMode) Valid() bool {
	return p > PayModeUnSpecified && p <= PayModeCheque
}

func (p PayMode) String() string {
	if v, ok := payModeNames[p]; ok {
		return v
	}
	return fmt.Sprintf("PayMode(%d)", p)
}

func (p PayMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *PayMode) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	if v, err := strconv.Atoi(string(b)); err == nil {
		*p = PayMode(v)
		return nil
	}

	b = b[1 : len(b)-1]
	if v, ok := payModeValues[string(b)]; ok {
		*p = v
		return nil
	}

	return fmt.Errorf("invalid pay mode: %s", string(b))
}

func (p PayMode) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *PayMode) Scan(src any) error {
	if src == nil {
		return nil
	}

	switch src := src.(type) {
	case string:
		if v, ok := payModeValues[src]; ok {
			*p = v
			return nil
		}

	case []byte:
		if v, ok := payModeValues[string(src)]; ok {
			*p = v
			return nil
		}
	}

	return fmt.Errorf("invalid pay mode: %v", src)
}
