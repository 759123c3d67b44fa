package ui

import (
	"fmt"

	"github.com/alfredjeanlab/intake/internal/model"
)

// ANSI256 color codes.
const (
	colorNew     = 74  // blue
	colorPending = 178 // yellow
	colorPaid    = 70  // green
	colorClosed  = 245 // medium gray
	colorRef     = 250 // light gray
	colorMuted   = 245 // medium gray
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderStatus returns a status colored by its pipeline stage: fresh leads
// blue, money pending yellow, paid green, closed gray. Unknown statuses
// render unstyled.
func RenderStatus(status model.Status) string {
	switch status {
	case model.StatusNew, model.StatusContacted, model.StatusMeetingBooked:
		return render(colorNew, string(status))
	case model.StatusPendingPayment:
		return render(colorPending, string(status))
	case model.StatusPaid:
		return render(colorPaid, string(status))
	case model.StatusClosed:
		return render(colorClosed, string(status))
	}
	return string(status)
}

// RenderPaymentStatus colors Paid green and anything else yellow.
func RenderPaymentStatus(ps model.PaymentStatus) string {
	if ps == model.PaymentPaid {
		return render(colorPaid, string(ps))
	}
	return render(colorPending, string(ps))
}

// RenderRef returns a reference number styled for table output.
func RenderRef(s string) string {
	return render(colorRef, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
