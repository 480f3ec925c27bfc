// Package outreach composes customer messages and the deep links that hand
// them to the external messaging client. Nothing here sends anything.
package outreach

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"admin-dashboard/internal/models"
)

// NamePlaceholder is replaced with the recipient's display name
const NamePlaceholder = "{name}"

const dispatchBaseURL = "https://wa.me/"

// Message kinds
const (
	KindTemplate = "template"
	KindProduct  = "product"
	KindCustom   = "custom"
)

// Message is a composed, still editable outreach message
type Message struct {
	Kind           string `json:"kind"`
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
	Body           string `json:"body"`
	DispatchURL    string `json:"dispatch_url"`
}

// Edit replaces the body and rebuilds the dispatch link
func (m *Message) Edit(body string) {
	m.Body = body
	m.DispatchURL = DispatchLink(m.RecipientPhone, body)
}

// ApplyTemplate substitutes every {name}; other placeholders stay verbatim
func ApplyTemplate(body, name string) string {
	return strings.ReplaceAll(body, NamePlaceholder, name)
}

// NormalizePhone strips everything but digits
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DispatchLink builds the deep link for an already normalized phone.
// Spaces are sent as %20; some clients show a literal "+" otherwise.
func DispatchLink(phone, body string) string {
	return dispatchBaseURL + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(body), "+", "%20")
}

// Composer binds templates and product promotions to recipients
type Composer struct {
	storeURL    string
	countryCode string

	mu        sync.Mutex
	now       func() time.Time
	lastToken int64
}

// NewComposer creates a composer linking products under storeURL.
// countryCode, when set, is prefixed to bare ten digit numbers.
func NewComposer(storeURL, countryCode string) *Composer {
	return &Composer{
		storeURL:    strings.TrimRight(storeURL, "/"),
		countryCode: NormalizePhone(countryCode),
		now:         time.Now,
	}
}

// Recipient normalizes the phone for a dispatch link
func (c *Composer) Recipient(phone string) string {
	digits := NormalizePhone(phone)
	if c.countryCode != "" && len(digits) == 10 {
		return c.countryCode + digits
	}
	return digits
}

// FromTemplate composes a template message for a customer
func (c *Composer) FromTemplate(tmpl models.MessageTemplate, name, phone string) *Message {
	return c.compose(KindTemplate, name, phone, ApplyTemplate(tmpl.Body, name))
}

// Custom wraps an already written body
func (c *Composer) Custom(name, phone, body string) *Message {
	return c.compose(KindCustom, name, phone, body)
}

// ProductPromotion composes a promotional message for one product
func (c *Composer) ProductPromotion(p models.Product, name, phone string) *Message {
	greeting := "Hello"
	if strings.TrimSpace(name) != "" {
		greeting = "Hello " + name
	}

	body := fmt.Sprintf("%s, check out %s now at just %s per %s!\n%s",
		greeting, p.Name, p.Price.StringFixed(2), p.Unit, c.ProductLink(p.ID))
	return c.compose(KindProduct, name, phone, body)
}

// ProductLink embeds a fresh token so messaging clients do not reuse a
// cached link preview
func (c *Composer) ProductLink(productID string) string {
	return fmt.Sprintf("%s/product/%s?v=%d", c.storeURL, url.PathEscape(productID), c.token())
}

// token is clock derived and strictly increasing within a process
func (c *Composer) token() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.now().UnixMilli()
	if next <= c.lastToken {
		next = c.lastToken + 1
	}
	c.lastToken = next
	return next
}

func (c *Composer) compose(kind, name, phone, body string) *Message {
	recipient := c.Recipient(phone)
	return &Message{
		Kind:           kind,
		RecipientName:  name,
		RecipientPhone: recipient,
		Body:           body,
		DispatchURL:    DispatchLink(recipient, body),
	}
}
