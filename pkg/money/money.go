// Package money handles integer paisa amounts and their display formatting.
// All monetary values in the system are stored as paisa (1/100 rupee) to
// avoid floating-point rounding.
package money

import (
	"fmt"
	"strings"
)

// Paisa is an amount in integer minor currency units.
type Paisa int64

// Rupees returns the whole-rupee part of the amount.
func (p Paisa) Rupees() int64 { return int64(p) / 100 }

// Fraction returns the paisa remainder within the current rupee.
func (p Paisa) Fraction() int64 {
	f := int64(p) % 100
	if f < 0 {
		f = -f
	}
	return f
}

// String renders the amount with the Indian grouping convention,
// e.g. 123456789 paisa -> "₹12,34,567.89".
func (p Paisa) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, groupIndian(v/100), v%100)
}

// Format is the convenience form used by email and PDF rendering.
func Format(amountPaisa int64) string {
	return Paisa(amountPaisa).String()
}

// groupIndian inserts separators per the Indian numbering system: the last
// three digits form one group, every two digits after that another.
func groupIndian(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	head := s[:len(s)-3]
	tail := s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
