// Package view renders the storefront's HTML pages.
package view

import (
	"embed"
	"encoding/json"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hydroshop/storefront/internal/model"
)

//go:embed templates/*.html
var files embed.FS

// SEODescriptionLength caps the meta description of collection pages.
const SEODescriptionLength = 154

var descriptionPolicy = bluemonday.UGCPolicy()

// Templates parses every page with the view helpers installed.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":     FormatMoney,
		"sanitize":  SanitizeHTML,
		"truncate":  Truncate,
		"inc":       func(n int) int { return n + 1 },
		"cartLines": CartLinesJSON,
		"lineIDs":   LineIDsJSON,
		"shopPay":   ShopPayURL,
	}
}

// FormatMoney renders an amount with its currency symbol. Unknown currency
// codes fall back to "amount CODE".
func FormatMoney(m model.Money) string {
	if m.Amount == "" {
		return "-"
	}
	cur, err := currency.ParseISO(m.CurrencyCode)
	if err != nil {
		return strings.TrimSpace(m.Amount + " " + m.CurrencyCode)
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(cur.Amount(m.Float64())))
}

// SanitizeHTML strips anything but user-generated-content markup from
// merchant supplied HTML.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(descriptionPolicy.Sanitize(s))
}

// Truncate cuts s to at most n runes.
func Truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// CartLinesJSON encodes the lines field of an add-to-cart form.
func CartLinesJSON(merchandiseID string, quantity int) string {
	b, _ := json.Marshal([]model.CartLineInput{{MerchandiseID: merchandiseID, Quantity: quantity}})
	return string(b)
}

// LineIDsJSON encodes the linesIds field of a remove form.
func LineIDsJSON(ids ...string) string {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

// ShopPayURL links straight to Shop Pay checkout for one unit of a variant.
// The variant id is the numeric tail of its global id. It returns "" when
// either part is missing.
func ShopPayURL(domain, variantID string) string {
	id := variantID[strings.LastIndex(variantID, "/")+1:]
	if domain == "" || id == "" {
		return ""
	}
	return "https://" + domain + "/cart/" + id + ":1?payment=shop_pay"
}
