package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	lakh  = 100_000
	crore = 10_000_000
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders a rupee amount with digit grouping and no decimals.
func FormatINR(amount float64) string {
	rounded := int64(math.Round(math.Abs(amount)))
	if amount < 0 && rounded != 0 {
		return inr.Sprintf("-₹%d", rounded)
	}
	return inr.Sprintf("₹%d", rounded)
}

// FormatLargeINR abbreviates amounts of a lakh or more as "₹X.XX L" and a
// crore or more as "₹X.XX Cr".
func FormatLargeINR(amount float64) string {
	switch {
	case amount >= crore:
		return fmt.Sprintf("₹%.2f Cr", amount/crore)
	case amount >= lakh:
		return fmt.Sprintf("₹%.2f L", amount/lakh)
	default:
		return FormatINR(amount)
	}
}
