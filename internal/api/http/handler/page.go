package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages renders the HTML pages served to link visitors.
type Pages struct {
	confirm *template.Template
	failure *template.Template
	delay   int
}

// NewPages parses the embedded templates. delaySeconds is the meta refresh delay of the
// confirmation page.
func NewPages(delaySeconds int) (*Pages, error) {
	confirm, err := template.ParseFS(templateFS, "templates/confirm.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}
	failure, err := template.ParseFS(templateFS, "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse error template: %w", err)
	}
	if delaySeconds < 0 {
		delaySeconds = 0
	}

	return &Pages{confirm: confirm, failure: failure, delay: delaySeconds}, nil
}

// Confirm writes the confirmation page that navigates to target.
func (p *Pages) Confirm(w http.ResponseWriter, target string) error {
	return render(w, p.confirm, http.StatusOK, struct {
		Delay int
		URL   string
	}{Delay: p.delay, URL: target})
}

// Error writes the error page with the given status.
func (p *Pages) Error(w http.ResponseWriter, status int, message string) error {
	return render(w, p.failure, status, struct {
		Message string
	}{Message: message})
}

func render(w http.ResponseWriter, tmpl *template.Template, status int, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
