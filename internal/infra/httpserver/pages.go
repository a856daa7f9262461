package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageSuccess = "success"

var pageFiles = map[string]string{
	pageSuccess:                        "templates/success.html",
	string(domain.FailureTimeout):      "templates/timeout.html",
	string(domain.FailureDomainError):  "templates/domain_error.html",
	string(domain.FailureInvalidInput): "templates/invalid_input.html",
}

// Pages holds the four fixed result pages.
type Pages struct {
	byName map[string]*template.Template
}

func LoadPages() (*Pages, error) {
	p := &Pages{byName: make(map[string]*template.Template, len(pageFiles))}
	for name, file := range pageFiles {
		t, err := template.ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

type pageData struct {
	Query  string
	Result domain.Result
}

// Render picks the page for the outcome; the query is always echoed back.
func (p *Pages) Render(w io.Writer, out domain.Outcome) error {
	name := pageSuccess
	if !out.OK {
		name = string(out.Failure)
	}
	t, ok := p.byName[name]
	if !ok {
		t = p.byName[string(domain.FailureInvalidInput)]
	}

	// render ke buffer dulu supaya error template tidak menghasilkan halaman setengah jadi
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pageData{Query: string(out.Query), Result: out.Result}); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
