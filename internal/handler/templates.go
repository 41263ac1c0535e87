package handler

import (
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"year": func() int {
			return time.Now().Year()
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		// pages lists 1..n for pagination links.
		"pages": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}
