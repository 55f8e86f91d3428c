// Package renderer turns cap table computations into markdown reports.
//
// Each report has a data type built from the record (NewCapTable, NewConversions, ...)
// and a function rendering it through an embedded text/template.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.md
var templates embed.FS

// printer groups digits of share counts.
var printer = message.NewPrinter(language.English)

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"qty":   Quantity,
	"money": Money,
	"price": Price,
	"cell":  cell,
	"deref": func(p *float64) float64 { return *p },
}

// Quantity renders a share count with grouped digits.
func Quantity(n int64) string { return printer.Sprintf("%d", n) }

// cell escapes a free text to fit in a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// renderTemplate renders the main template file, the partials are made available by name.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
