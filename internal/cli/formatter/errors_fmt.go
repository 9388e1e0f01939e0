package formatter

import (
	"errors"
	"strings"

	"github.com/awsbudi/risk-tracker/internal/domain"
)

// ErrorLines splits err for display. A validation error yields one line per
// violation; anything else is a single line.
func ErrorLines(err error) []string {
	if err == nil {
		return nil
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		lines := make([]string, len(ve.Violations))
		for i, v := range ve.Violations {
			lines[i] = v.String()
		}
		return lines
	}
	return []string{err.Error()}
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return StyleAlert.Render("Error:") + " " + err.Error() + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleAlert.Render("Error:") + " validation failed\n")
	for _, line := range ErrorLines(ve) {
		b.WriteString("  • " + line + "\n")
	}
	return b.String()
}
