package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Terminal rendering for the CLI. Diagnostics come in pre-sanitized; this
// layer only decides colors and layout.

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	infoLabel    = color.New(color.FgCyan)
	hintLabel    = color.New(color.FgHiBlack)
	codeStyle    = color.New(color.FgHiBlack)
	positionTint = color.New(color.FgHiBlue)
)

func labelFor(s Severity) *color.Color {
	switch s {
	case SeverityError:
		return errorLabel
	case SeverityWarning:
		return warningLabel
	case SeverityInformation:
		return infoLabel
	default:
		return hintLabel
	}
}

// Render writes one diagnostic in terminal form
func Render(w io.Writer, d Diagnostic) {
	labelFor(d.Severity).Fprintf(w, "%s", d.Severity)
	positionTint.Fprintf(w, " %d:%d", d.Range.Start.Line+1, d.Range.Start.Character+1)
	fmt.Fprintf(w, " %s ", d.Message)
	codeStyle.Fprintf(w, "[%s]\n", d.Code)
}

// RenderList writes every diagnostic followed by a summary line
func RenderList(w io.Writer, dl DiagnosticList) {
	for _, d := range dl {
		Render(w, d)
	}
	if len(dl) == 0 {
		fmt.Fprintln(w, "no diagnostics")
		return
	}
	fmt.Fprintf(w, "%d diagnostic(s)\n", len(dl))
}
