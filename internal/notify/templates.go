package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"money": formatMoney,
		"whole": formatWhole,
	}).ParseFS(templateFS, "templates/*.html"),
)

type priceDropView struct {
	PriceDrop
	Savings float64
}

func renderPriceDrop(msg PriceDrop) (string, error) {
	return render("price_drop.html", priceDropView{
		PriceDrop: msg,
		Savings:   msg.TargetPrice - msg.CurrentPrice,
	})
}

func renderConfirmation(msg AlertConfirmation) (string, error) {
	return render("alert_confirmation.html", msg)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func currencyPrefix(currency string) string {
	switch strings.ToUpper(currency) {
	case "", "USD":
		return "$"
	case "GBP":
		return "£"
	case "EUR":
		return "€"
	default:
		return strings.ToUpper(currency) + " "
	}
}

func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%s%.2f", currencyPrefix(currency), amount)
}

func formatWhole(amount float64, currency string) string {
	return fmt.Sprintf("%s%.0f", currencyPrefix(currency), math.Round(amount))
}
