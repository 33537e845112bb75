package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/ericfisherdev/cistatus/internal/domain/model"
)

// FormatStatuses renders one line per status record: a state glyph, the
// context, and the target URL when one exists. The context column is padded
// to the longest context across all records, but only when at least one
// record carries a URL to align; otherwise the column collapses to zero
// width. Widths count runes, not bytes, so multibyte contexts align too.
func FormatStatuses(statuses []model.Status, useColor bool) string {
	width := 0
	for _, s := range statuses {
		if s.TargetURL == "" {
			continue
		}
		for _, other := range statuses {
			if n := utf8.RuneCountInString(other.Context); n > width {
				width = n
			}
		}
		break
	}

	lines := make([]string, 0, len(statuses))
	for _, s := range statuses {
		line := glyph(model.State(s.State), useColor) + "\t" + padRight(s.Context, width)
		if s.TargetURL != "" {
			line += "\t" + s.TargetURL
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// padRight left-aligns s in a column of the given rune width.
func padRight(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// glyph picks the state marker, colored when requested. Colors are forced on
// explicitly so the caller's terminal detection is authoritative rather than
// fatih/color's own.
func glyph(state model.State, useColor bool) string {
	var symbol string
	var attr color.Attribute
	switch state {
	case model.StateSuccess:
		symbol, attr = "✔︎", color.FgGreen
	case model.StateCancelled, model.StateTimedOut, model.StateActionRequired,
		model.StateFailure, model.StateError:
		symbol, attr = "✖︎", color.FgRed
	case model.StateNeutral:
		symbol, attr = "◦", color.FgHiBlack
	case model.StatePending:
		symbol, attr = "●", color.FgYellow
	default:
		return ""
	}
	if !useColor {
		return symbol
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(symbol)
}

// displayState renders the bare overall state word for the zero-verbosity
// output mode.
func displayState(state model.State) string {
	if state == model.StateNone {
		return "no status"
	}
	return string(state)
}
