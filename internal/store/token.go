package store

import (
	"fmt"
	"time"
)

// FormatToken renders the queue token for a given office code, day and
// sequence number: OFFICECODE-YYYYMMDD-NNN. The sequence is zero-padded
// to three digits and widens naturally past 999.
func FormatToken(officeCode string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", officeCode, day.Format("20060102"), seq)
}

// FormatFileNumber renders an office-file reference as serial/year,
// unique per office and year.
func FormatFileNumber(serial, year int) string {
	return fmt.Sprintf("%d/%d", serial, year)
}
