package outreach

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"admin-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTemplate(t *testing.T) {
	out := ApplyTemplate("Hello {name}, your order is on its way. {name}, thanks! {order}", "Acme Traders")
	assert.True(t, strings.HasPrefix(out, "Hello Acme Traders, "))
	assert.Equal(t, "Hello Acme Traders, your order is on its way. Acme Traders, thanks! {order}", out)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "919876543210", NormalizePhone("+91 (98765) 43-210"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestRecipientAddsCountryCodeToBareNumbers(t *testing.T) {
	c := NewComposer("https://shop.example", "+91")
	assert.Equal(t, "919876543210", c.Recipient("98765 43210"))
	assert.Equal(t, "919876543210", c.Recipient("+91 98765 43210"))

	plain := NewComposer("https://shop.example", "")
	assert.Equal(t, "9876543210", plain.Recipient("98765-43210"))
}

func TestDispatchLinkEscapesBody(t *testing.T) {
	link := DispatchLink("919876543210", "Hi Bob & co + friends?")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="))
	assert.NotContains(t, link, " ")
	assert.NotContains(t, link, "+")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hi Bob & co + friends?", parsed.Query().Get("text"))
}

func TestFromTemplate(t *testing.T) {
	c := NewComposer("https://shop.example", "")
	msg := c.FromTemplate(models.MessageTemplate{Body: "Hello {name}, new stock is in!"}, "Acme Traders", "+91-98765-43210")

	assert.Equal(t, KindTemplate, msg.Kind)
	assert.Equal(t, "919876543210", msg.RecipientPhone)
	assert.Equal(t, "Hello Acme Traders, new stock is in!", msg.Body)
	assert.Equal(t, DispatchLink("919876543210", msg.Body), msg.DispatchURL)
}

func TestEditRebuildsDispatchLink(t *testing.T) {
	c := NewComposer("https://shop.example", "")
	msg := c.Custom("Bob", "9000000000", "draft")
	msg.Edit("final text")

	assert.Equal(t, "final text", msg.Body)
	assert.Equal(t, DispatchLink("9000000000", "final text"), msg.DispatchURL)
}

func TestProductPromotionEmbedsNamePriceAndFreshLink(t *testing.T) {
	c := NewComposer("https://shop.example/", "")
	fixed := time.UnixMilli(1700000000000)
	c.now = func() time.Time { return fixed }

	p := models.Product{ID: "p42", Name: "Basmati Rice", Price: decimal.RequireFromString("120.5"), Unit: "kg"}
	first := c.ProductPromotion(p, "Acme", "9000000000")
	second := c.ProductPromotion(p, "Acme", "9000000000")

	assert.Equal(t, KindProduct, first.Kind)
	assert.Contains(t, first.Body, "Basmati Rice")
	assert.Contains(t, first.Body, "120.50")
	assert.Contains(t, first.Body, "https://shop.example/product/p42?v=1700000000000")
	assert.Contains(t, second.Body, "https://shop.example/product/p42?v=1700000000001",
		"token must keep increasing even when the clock does not")
	assert.True(t, strings.HasPrefix(first.Body, "Hello Acme, "))
}
