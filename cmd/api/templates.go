package main

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"price": func(p *float64) string {
			if p == nil {
				return ""
			}
			return fmt.Sprintf("$%.2f", *p)
		},
		// product descriptions are admin-authored rich text
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
