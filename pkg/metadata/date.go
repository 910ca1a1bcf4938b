package metadata

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the backend and date inputs.
const DateLayout = "2006-01-02"

// Date is a calendar date in DateLayout form.
type Date string

// NewDate normalizes user input into a Date. A full timestamp is cut down to
// its date part; anything else that does not parse is rejected.
func NewDate(value string) (Date, error) {
	normalized := strings.TrimSpace(value)
	if len(normalized) > len(DateLayout) {
		if _, err := time.Parse(time.RFC3339, normalized); err == nil {
			normalized = normalized[:len(DateLayout)]
		}
	}

	if _, err := time.Parse(DateLayout, normalized); err != nil {
		return "", fmt.Errorf("value %q is not a valid date, expected YYYY-MM-DD", value)
	}

	return Date(normalized), nil
}

// Today returns the current local date.
func Today() Date {
	return Date(time.Now().Format(DateLayout))
}

func (d Date) String() string {
	return string(d)
}

func (d Date) IsZero() bool {
	return d == ""
}
