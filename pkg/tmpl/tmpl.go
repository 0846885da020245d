// Package tmpl provides template rendering utilities for markdown output.
package tmpl

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
)

var mdReplacer = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
	"|", `\|`,
)

// markdownEscape escapes characters with inline markdown meaning.
func markdownEscape(s string) string {
	return mdReplacer.Replace(s)
}

// stars renders a 0-5 rating as filled and empty stars, rounded to the
// nearest whole star.
func stars(rating float64) string {
	n := int(math.Round(math.Max(0, math.Min(5, rating))))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// truncate shortens s to at most n runes, adding an ellipsis when cut.
func truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

var funcs = template.FuncMap{
	"md":       markdownEscape,
	"stars":    stars,
	"truncate": truncate,
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - md: escape inline markdown characters
//   - stars: render a 0-5 rating as ★★★★☆
//   - truncate N: shorten a string to N runes
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
