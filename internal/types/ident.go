package types

import "regexp"

var (
	gstinRe = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z]{1}[A-Z\d]{1}[Z]{1}[A-Z\d]{1}$`)
	ifscRe  = regexp.MustCompile(`^[A-Za-z]{4}\d{7}$`)
)

// ValidGSTIN reports whether s is a well-formed 15-character GST
// identification number. It checks the format only, not the checksum.
func ValidGSTIN(s string) bool {
	return gstinRe.MatchString(s)
}

// ValidIFSC reports whether s is a well-formed bank IFSC code.
func ValidIFSC(s string) bool {
	return ifscRe.MatchString(s)
}
