package engine

import (
	"strings"

	"github.com/danieljhkim/dateplan/internal/clock"
)

// TodayToken is the date input that resolves to the current date.
const TodayToken = "today"

// ResolveDateInput expands the "today" token using clk. Any other input
// is returned trimmed and left for SetDate to validate.
func ResolveDateInput(input string, clk clock.Clock) string {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, TodayToken) {
		return clock.Today(clk).String()
	}
	return trimmed
}
