package content

import (
	"strings"
	"time"
)

// PresentLabel is shown in place of the end date of an ongoing entry
const PresentLabel = "Present"

// dateLayouts are the date formats the editor accepts, most specific first
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"1/2006",
	"01/02/2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// FormatDate renders a date as "Jan 2006".
// Year-only dates stay year-only; input that matches no known layout is returned as is.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "2006" {
			return t.Format("2006")
		}
		return t.Format("Jan 2006")
	}
	return s
}

// DateRange renders "start – end". Current entries end with PresentLabel
// whatever their end date says.
func DateRange(start, end string, current bool) string {
	from := FormatDate(start)
	to := FormatDate(end)
	if current {
		to = PresentLabel
	}

	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " – " + to
}
