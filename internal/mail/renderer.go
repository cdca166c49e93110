package mail

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/minimart-io/minimart/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var moneyPrinter = message.NewPrinter(language.English)

// Renderer renders order email bodies from templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer creates a new renderer and loads all templates.
func NewRenderer() (*Renderer, error) {
	funcMap := template.FuncMap{
		"upper":       strings.ToUpper,
		"formatMoney": formatMoney,
		"formatTime":  formatTime,
	}

	r := &Renderer{templates: make(map[string]*template.Template)}

	for _, name := range []string{"order_confirmation", "order_status"} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)

		content, err := templatesFS.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", filename, err)
		}

		tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return r, nil
}

// confirmationData is the payload for the order confirmation template.
type confirmationData struct {
	Order *domain.Order
	Total float64
}

// RenderOrderConfirmation renders the confirmation email for a new order.
// Returns subject and body.
func (r *Renderer) RenderOrderConfirmation(order *domain.Order, total float64) (subject, body string, err error) {
	subject = fmt.Sprintf("Order %s confirmed", order.Number)
	body, err = r.render("order_confirmation", confirmationData{Order: order, Total: total})
	return subject, body, err
}

// RenderStatusUpdate renders the email for an order status change.
// Returns subject and body.
func (r *Renderer) RenderStatusUpdate(order *domain.Order) (subject, body string, err error) {
	subject = fmt.Sprintf("Order %s is now %s", order.Number, order.Status)
	body, err = r.render("order_status", order)
	return subject, body, err
}

func (r *Renderer) render(name string, data any) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatMoney formats an amount with locale-aware grouping, e.g. "$1,234.50".
func formatMoney(amount float64) string {
	return moneyPrinter.Sprintf("$%.2f", amount)
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}
