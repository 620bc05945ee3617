package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names. They match the notification template identifiers.
const (
	Verification  = "verification"
	PasswordReset = "password_reset"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Email string `json:"Email"`
	Type  string `json:"Type"`

	AppName     string `json:"AppName"`
	CompanyName string `json:"CompanyName"`
	SupportURL  string `json:"SupportURL"`

	// ActionURL already carries the code as a query parameter.
	ActionURL string `json:"ActionURL"`
	Code      string `json:"Code"`
}

// Branding holds the sender-wide values every template shows.
type Branding struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

func NewEmailData(b Branding, typ, email, actionURL, code string) EmailData {
	return EmailData{
		Email:       email,
		Type:        typ,
		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		SupportURL:  b.SupportURL,
		ActionURL:   actionURL,
		Code:        code,
	}
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func baseFuncs() map[string]any {
	return map[string]any{
		"year":    func() int { return time.Now().UTC().Year() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// renderFile loads and renders a single template file from the embedded FS.
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)
	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data EmailData) (subject, text, html string, err error) {
	if subject, err = renderFile(name+".subject.tmpl", false, data); err != nil {
		return "", "", "", err
	}
	if text, err = renderFile(name+".text.tmpl", false, data); err != nil {
		return "", "", "", err
	}
	if html, err = renderFile(name+".html.tmpl", true, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
