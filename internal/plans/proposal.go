package plans

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatAmount renders whole currency units with thousands separators, e.g. 6750 -> "$6,750".
func FormatAmount(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

func formatMinutes(minutes float64) string {
	if minutes == float64(int(minutes)) {
		s := FormatAmount(int(minutes))
		return strings.TrimPrefix(s, "$")
	}
	return strconv.FormatFloat(minutes, 'f', -1, 64)
}

// RenderProposal produces the plain-text proposal offered by "Download Proposal".
func RenderProposal(q *Quote, issued time.Time) string {
	var b strings.Builder
	fmt.Fprintln(&b, "VertoX Translation Proposal")
	fmt.Fprintf(&b, "Issued: %s\n\n", issued.UTC().Format("January 2, 2006"))

	fmt.Fprintln(&b, "Configuration Summary")
	width := 0
	for _, l := range q.Lines {
		if len(l.Label) > width {
			width = len(l.Label)
		}
	}
	for _, l := range q.Lines {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, l.Label, l.Value)
	}

	fmt.Fprintf(&b, "\nTotal Price: %s\n", FormatAmount(q.Price))
	fmt.Fprintf(&b, "Includes %s minutes of AI translation\n", formatMinutes(q.TotalMinutes))
	fmt.Fprintln(&b, "\nThis proposal is an estimate. Contact sales@vertox.io to confirm availability.")
	return b.String()
}
