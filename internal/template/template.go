// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wneessen/rentalhub/internal/config"
)

type Templates struct {
	Property        *template.Template
	Suggestion      *template.Template
	OwnerDashboard  *template.Template
	TenantDashboard *template.Template

	humanizer *humanize.Humanizer
	printer   *message.Printer
}

// New parses the configured output templates.
func New(conf *config.Config) (*Templates, error) {
	tpls := &Templates{
		humanizer: humanize.MustNew().CreateHumanizer(language.English),
		printer:   message.NewPrinter(language.AmericanEnglish),
	}

	sources := []struct {
		name   string
		text   string
		target **template.Template
	}{
		{"property", conf.Templates.Property, &tpls.Property},
		{"suggestion", conf.Templates.Suggestion, &tpls.Suggestion},
		{"owner dashboard", conf.Templates.OwnerDashboard, &tpls.OwnerDashboard},
		{"tenant dashboard", conf.Templates.TenantDashboard, &tpls.TenantDashboard},
	}
	for _, source := range sources {
		tpl, err := template.New(source.name).Funcs(tpls.templateFuncMap()).Parse(source.text)
		if err != nil {
			return tpls, fmt.Errorf("failed to parse %s template: %w", source.name, err)
		}
		*source.target = tpl
	}

	return tpls, nil
}

// Render executes tpl with data and terminates the output with a newline.
func Render(w io.Writer, tpl *template.Template, data any) error {
	buf := strings.Builder{}
	if err := tpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s template: %w", tpl.Name(), err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func (t *Templates) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"floatFormat":   floatFormat,
		"money":         t.Money,
		"since":         t.Since,
		"date":          t.date,
		"localizedTime": t.localizedTime,
		"pad":           pad,
		"join":          strings.Join,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

// Money formats val as US dollar amount with thousands separators.
func (t *Templates) Money(val float64) string {
	return t.printer.Sprintf("$%.2f", val)
}

// Since returns the humanized distance between val and now.
func (t *Templates) Since(val time.Time) string {
	if val.IsZero() {
		return "never"
	}
	return t.humanizer.NaturalTime(val)
}

func (t *Templates) date(val time.Time) string {
	if val.IsZero() {
		return "-"
	}
	return t.humanizer.FormatTime(val, humanize.DateFormat)
}

func (t *Templates) localizedTime(val time.Time) string {
	return t.humanizer.FormatTime(val, humanize.TimeFormat)
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

// pad fits val into width terminal cells, cutting it with an ellipsis if it is too wide.
func pad(val string, width int) string {
	if runewidth.StringWidth(val) > width {
		val = runewidth.Truncate(val, width, "…")
	}
	return runewidth.FillRight(val, width)
}
