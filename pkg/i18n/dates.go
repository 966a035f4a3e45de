package i18n

import (
	"fmt"
	"time"
)

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// FormatDate renders a short date: 02.01.2006 or 01/02/2006.
func FormatDate(t time.Time, l Locale) string {
	if t.IsZero() {
		return ""
	}
	if l == EN {
		return t.Format("01/02/2006")
	}
	return t.Format("02.01.2006")
}

// FormatLongDate renders "2. Januar 2006" or "January 2, 2006".
func FormatLongDate(t time.Time, l Locale) string {
	if t.IsZero() {
		return ""
	}
	if l == EN {
		return t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}
