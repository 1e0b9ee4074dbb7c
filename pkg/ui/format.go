package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/histscope/internal/history"
)

// Column widths for the list row. Dates render as "HH:MM" for today and
// "YYYY-MM-DD HH:MM" otherwise, so the date column fits the long form.
const (
	dateColumnWidth     = 16
	durationColumnWidth = 3 // digits only; " s"/" m"/" h" suffix follows
)

// Placeholders for missing optional fields, sized to their columns.
const (
	datePlaceholder     = "??:??"
	durationPlaceholder = "     "
	unknownPlaceholder  = "<unknown>"
)

// DurationTier classifies a command duration for colorization.
type DurationTier int

const (
	TierPlain DurationTier = iota // < 5s, no color
	TierWarn                      // < 60s, warning color
	TierAlert                     // >= 60s, alert color
)

// TierOf returns the colorization tier for d. The boundaries are
// half-open: 4.9s is plain, exactly 5s is warning; 59s is warning,
// exactly 60s is alert.
func TierOf(d time.Duration) DurationTier {
	switch {
	case d < 5*time.Second:
		return TierPlain
	case d < time.Minute:
		return TierWarn
	default:
		return TierAlert
	}
}

// FormatDate renders a timestamp for the date column: "HH:MM" when the
// entry's local date equals now's local date, "YYYY-MM-DD HH:MM" otherwise.
func FormatDate(t, now time.Time) string {
	t = t.Local()
	now = now.Local()
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return t.Format("15:04")
	}
	return t.Format("2006-01-02 15:04")
}

// FormatDuration renders a duration with a magnitude-chosen unit:
// one-decimal seconds under 1s, whole seconds under a minute, whole
// minutes under an hour, whole hours beyond. The number is right-aligned
// in the duration column.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%s s", padLeft(fmt.Sprintf("%.1f", d.Seconds()), durationColumnWidth))
	case d < time.Minute:
		return fmt.Sprintf("%s s", padLeft(fmt.Sprintf("%d", int(d.Seconds())), durationColumnWidth))
	case d < time.Hour:
		return fmt.Sprintf("%s m", padLeft(fmt.Sprintf("%d", int(d.Minutes())), durationColumnWidth))
	default:
		return fmt.Sprintf("%s h", padLeft(fmt.Sprintf("%d", int(d.Hours())), durationColumnWidth))
	}
}

// styledDuration renders a duration colorized by tier.
func styledDuration(t Theme, d time.Duration) string {
	s := FormatDuration(d)
	switch TierOf(d) {
	case TierWarn:
		return t.WarnText.Render(s)
	case TierAlert:
		return t.AlertText.Render(s)
	default:
		return s
	}
}

// DisplayLine renders an entry's list row: fixed-width date and duration
// columns followed by the command's first line. Missing fields render as
// same-width placeholders so the columns never shift.
func DisplayLine(t Theme, e history.Entry, now time.Time) string {
	date := datePlaceholder
	if e.StartedAt != nil {
		date = FormatDate(*e.StartedAt, now)
	}

	duration := durationPlaceholder
	if e.Duration != nil {
		duration = styledDuration(t, *e.Duration)
	}

	return fmt.Sprintf("%s | %s | %s",
		t.MutedText.Render(padLeft(date, dateColumnWidth)),
		duration,
		firstLine(e.Command))
}

// PreviewText renders the multi-line detail block for an entry: identifier,
// host, directory, session, localized timestamp, colorized duration and
// exit status, and the full command text.
func PreviewText(t Theme, e history.Entry) string {
	id := unknownPlaceholder
	if e.ID != nil {
		id = fmt.Sprintf("%d", *e.ID)
	}

	timestamp := unknownPlaceholder
	if e.StartedAt != nil {
		timestamp = e.StartedAt.Local().Format("2006-01-02 15:04:05 -0700")
	}

	duration := unknownPlaceholder
	if e.Duration != nil {
		duration = strings.TrimSpace(styledDuration(t, *e.Duration))
	}

	var exitLine string
	switch {
	case e.Succeeded():
		exitLine = t.SuccessText.Render("Exit Status: 0")
	case e.ExitStatus != nil:
		exitLine = t.FailureText.Render(fmt.Sprintf("Exit Status: %d", *e.ExitStatus))
	default:
		exitLine = t.FailureText.Render("Exit Status: " + unknownPlaceholder)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", t.PrimaryBold.Render("Details for entry "+id))
	fmt.Fprintf(&b, "Host: %s\n", orUnknown(e.Hostname))
	fmt.Fprintf(&b, "Directory: %s\n", orUnknown(e.Cwd))
	if e.SessionID != nil {
		fmt.Fprintf(&b, "Session: %d\n", *e.SessionID)
	} else {
		fmt.Fprintf(&b, "Session: %s\n", unknownPlaceholder)
	}
	fmt.Fprintf(&b, "Timestamp: %s\n", timestamp)
	fmt.Fprintf(&b, "Duration: %s\n", duration)
	fmt.Fprintf(&b, "%s\n", exitLine)
	fmt.Fprintf(&b, "Command:\n\n%s\n", e.Command)
	return b.String()
}

func orUnknown(s *string) string {
	if s == nil {
		return unknownPlaceholder
	}
	return *s
}
