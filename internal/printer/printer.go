package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/neighborly/internal/styles"
)

// Symbols
const (
	Check = "✔"
	Cross = "✘"
	Dot   = "•"
	Star  = "★"
)

type ctxKey struct{}

// Printer handles formatted output with colors and styles. Colors are
// dropped automatically when the writer is not a terminal.
type Printer struct {
	writer io.Writer

	red, green, yellow, blue, gray lipgloss.Style
	bold, section                  lipgloss.Style
}

// New creates a new Printer that writes to the given writer
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		writer:  w,
		red:     r.NewStyle().Foreground(styles.ColorRed),
		green:   r.NewStyle().Foreground(styles.ColorGreen),
		yellow:  r.NewStyle().Foreground(styles.ColorYellow),
		blue:    r.NewStyle().Foreground(styles.ColorBlue),
		gray:    r.NewStyle().Foreground(styles.ColorGray),
		bold:    r.NewStyle().Bold(true),
		section: r.NewStyle().Bold(true).Underline(true),
	}
}

// NewContext returns a context with the printer attached
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx retrieves the printer from context, or creates a default one
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.writer
}

func (p *Printer) line(s string) {
	_, _ = io.WriteString(p.writer, s+"\n")
}

// FatalError prints a formatted error box and does NOT exit
// Caller should handle exit code
func (p *Printer) FatalError(err error) {
	if err == nil {
		return
	}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		p.printValidationErrors(err, fieldErrs)
		return
	}

	p.line(p.red.Render("╭ Error"))
	p.line(p.red.Render("│") + " " + p.gray.Render(err.Error()))
	p.line(p.red.Render("╵"))
}

// printValidationErrors formats criterio.FieldErrors as a validation box
func (p *Printer) printValidationErrors(wrappedErr error, fieldErrs criterio.FieldErrors) {
	// context is whatever the field errors were wrapped with, e.g. "load config: invalid config"
	errStr := wrappedErr.Error()
	errContext := ""
	if idx := strings.Index(errStr, fieldErrs.Error()); idx > 0 {
		errContext = strings.TrimSuffix(errStr[:idx], ": ")
	}

	p.line(p.red.Render("╭ Validation Error"))

	if errContext != "" {
		p.line(p.red.Render("│") + " " + p.gray.Render(errContext))
		p.line(p.red.Render("│"))
	}

	for _, fe := range fieldErrs {
		line := p.red.Render("│") + " " + p.red.Render(Cross) + " "
		if fe.Field != "" {
			line += p.gray.Render(fe.Field) + ": "
		}
		line += fe.Err.Error()
		p.line(line)
	}

	p.line(p.red.Render("╵"))
}

// Errorf prints an error message in red
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.red.Render(Cross + " " + fmt.Sprintf(format, args...)))
}

// Successf prints a success message in green
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.green.Render(Check + " " + fmt.Sprintf(format, args...)))
}

// Success prints a success message with details on a separate line
func (p *Printer) Success(message string, details string) {
	p.line(p.green.Render(Check + " " + message))
	if details != "" {
		p.line("  " + p.gray.Render(details))
	}
}

// Infof prints an info message in gray
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.gray.Render(Dot + " " + fmt.Sprintf(format, args...)))
}

// Warnf prints a warning message in yellow
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.yellow.Render(Dot + " " + fmt.Sprintf(format, args...)))
}

// Printf prints a plain message without colors
func (p *Printer) Printf(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Bold makes text bold
func (p *Printer) Bold(text string) string {
	return p.bold.Render(text)
}

// Muted renders text in the comment color.
func (p *Printer) Muted(text string) string {
	return p.gray.Render(text)
}

// Section prints a section header (bold + underlined)
func (p *Printer) Section(title string) {
	p.line(p.section.Render(title))
}

// CheckItem prints a success item with green checkmark
func (p *Printer) CheckItem(label, detail string) {
	p.printItem(p.green, Check, label, detail)
}

// WarnItem prints a warning item with yellow dot
func (p *Printer) WarnItem(label, detail string) {
	p.printItem(p.yellow, Dot, label, detail)
}

// FailItem prints a failure item with red cross
func (p *Printer) FailItem(label, detail string) {
	p.printItem(p.red, Cross, label, detail)
}

func (p *Printer) printItem(style lipgloss.Style, symbol, label, detail string) {
	line := "  " + style.Render(symbol) + " " + label
	if detail != "" {
		line += ": " + detail
	}
	p.line(line)
}

// ProductLine prints a single product row: id, name, price and rating.
func (p *Printer) ProductLine(id, name, price string, rating float64) {
	stars := ""
	if rating > 0 {
		stars = p.yellow.Render(fmt.Sprintf("%s %.1f", Star, rating))
	}
	p.line(fmt.Sprintf("  %s %s  %s  %s", p.gray.Render(fmt.Sprintf("%4s", id)), name, p.blue.Render(price), stars))
}
