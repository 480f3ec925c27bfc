// Package normalize turns loosely typed backend JSON into strict records.
//
// Field-level problems never fail a record: a missing or mistyped field is
// replaced by its default so one bad order cannot block the rest of a fetch.
// Only a payload that is not a collection at all is an error.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"admin-dashboard/internal/models"
)

// ErrUnexpectedShape is returned when a payload holds no record collection
var ErrUnexpectedShape = errors.New("unexpected payload shape")

// Orders decodes an order list payload
func Orders(payload []byte) ([]models.Order, error) {
	records, err := collection(payload, "orders")
	if err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(records))
	for _, raw := range records {
		orders = append(orders, Order(raw))
	}
	return orders, nil
}

// Products decodes a product list payload
func Products(payload []byte) ([]models.Product, error) {
	records, err := collection(payload, "products")
	if err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(records))
	for _, raw := range records {
		products = append(products, Product(raw))
	}
	return products, nil
}

// collection accepts a bare array or an envelope keyed by "data" or name
func collection(payload []byte, name string) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}

	if list, ok := unwrap(root, name, 0); ok {
		return list, nil
	}
	return nil, ErrUnexpectedShape
}

func unwrap(v interface{}, name string, depth int) ([]interface{}, bool) {
	switch typed := v.(type) {
	case []interface{}:
		return typed, true
	case map[string]interface{}:
		if depth > 1 {
			return nil, false
		}
		for _, key := range []string{name, "data", "items", "results"} {
			if inner, ok := typed[key]; ok {
				if list, ok := unwrap(inner, name, depth+1); ok {
					return list, true
				}
			}
		}
	}
	return nil, false
}

// Order normalizes one raw order record
func Order(raw interface{}) models.Order {
	m := asMap(raw)

	shipping := shippingAddress(m["shippingAddress"])

	order := models.Order{
		ID:              idOf(firstPresent(m, "_id", "id")),
		OrderNumber:     str(firstPresent(m, "orderNumber", "orderNo", "orderId")),
		CreatedAt:       timeVal(firstPresent(m, "createdAt", "orderDate", "date")),
		Customer:        customerRef(m, shipping),
		Total:           decimalVal(firstPresent(m, "total", "totalAmount", "totalPrice")),
		Status:          orderStatus(str(m["status"])),
		PaymentMode:     paymentMode(str(firstPresent(m, "paymentMode", "paymentMethod"))),
		ShippingAddress: shipping,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = order.ID
	}

	items, ok := firstPresent(m, "items", "orderItems").([]interface{})
	if ok {
		order.Items = make([]models.LineItem, 0, len(items))
		for _, item := range items {
			order.Items = append(order.Items, lineItem(item))
		}
	} else {
		order.Items = []models.LineItem{}
	}

	return order
}

// customerRef returns nil when the order carries no customer reference
func customerRef(m map[string]interface{}, shipping *models.ShippingAddress) *models.CustomerRef {
	var ref models.CustomerRef
	var address string

	switch typed := firstPresent(m, "customerId", "customer", "user").(type) {
	case string:
		ref.ID = strings.TrimSpace(typed)
		if ref.ID == "" {
			return nil
		}
	case json.Number:
		ref.ID = typed.String()
	case map[string]interface{}:
		ref.ID = idOf(firstPresent(typed, "_id", "id"))
		ref.Name = str(firstPresent(typed, "name", "fullName"))
		ref.Phone = str(firstPresent(typed, "phone", "mobile", "phoneNumber"))
		ref.Location = str(firstPresent(typed, "state", "city"))
		address = str(typed["address"])
	default:
		return nil
	}

	if ref.ID == "" {
		ref.ID = models.UnknownCustomerID
	}
	if ref.Name == "" {
		ref.Name = str(m["customerName"])
	}
	if ref.Phone == "" {
		ref.Phone = str(m["customerPhone"])
	}
	if address == "" {
		address = str(m["address"])
	}

	if shipping != nil {
		if ref.Name == "" {
			ref.Name = shipping.Name
		}
		if ref.Phone == "" {
			ref.Phone = shipping.Phone
		}
		if shipping.State != "" {
			ref.Location = shipping.State
		}
	}
	if ref.Location == "" {
		ref.Location = Location(address)
	}

	return &ref
}

func shippingAddress(v interface{}) *models.ShippingAddress {
	switch typed := v.(type) {
	case map[string]interface{}:
		addr := &models.ShippingAddress{
			Name:       str(firstPresent(typed, "name", "fullName")),
			Street:     str(firstPresent(typed, "street", "addressLine1", "address")),
			Area:       str(firstPresent(typed, "area", "locality", "addressLine2")),
			City:       str(firstPresent(typed, "city", "town")),
			State:      str(typed["state"]),
			PostalCode: str(firstPresent(typed, "postalCode", "pincode", "zip")),
			Phone:      str(firstPresent(typed, "phone", "mobile")),
		}
		if *addr == (models.ShippingAddress{}) {
			return nil
		}
		return addr
	case string:
		text := strings.TrimSpace(typed)
		if text == "" {
			return nil
		}
		return &models.ShippingAddress{Street: text, State: Location(text)}
	default:
		return nil
	}
}

func lineItem(raw interface{}) models.LineItem {
	m := asMap(raw)

	product := firstPresent(m, "product", "productId")
	pm := asMap(product)

	item := models.LineItem{
		ProductID: idOf(product),
		Name:      str(m["name"]),
		Price:     decimalVal(m["price"]),
		Unit:      str(m["unit"]),
		Image:     str(m["image"]),
	}
	if qty, ok := intVal(firstPresent(m, "quantity", "qty")); ok {
		item.Quantity = qty
	}

	if item.Name == "" {
		item.Name = str(pm["name"])
	}
	if item.Price.IsZero() {
		item.Price = decimalVal(pm["price"])
	}
	if item.Unit == "" {
		item.Unit = str(pm["unit"])
	}
	if item.Image == "" {
		item.Image = image(pm)
	}

	if item.Name == "" {
		item.Name = models.DefaultItemName
	}
	if item.Unit == "" {
		item.Unit = models.DefaultItemUnit
	}
	return item
}

// Product normalizes one raw product record
func Product(raw interface{}) models.Product {
	m := asMap(raw)

	p := models.Product{
		ID:       idOf(firstPresent(m, "_id", "id")),
		SKU:      str(m["sku"]),
		Name:     str(m["name"]),
		Category: category(m["category"]),
		Price:    decimalVal(m["price"]),
		Unit:     str(m["unit"]),
		Image:    image(m),
	}
	if stock, ok := intVal(m["stock"]); ok {
		p.Stock = stock
	}

	if p.Name == "" {
		p.Name = models.DefaultItemName
	}
	if p.Unit == "" {
		p.Unit = models.DefaultItemUnit
	}
	return p
}

func category(v interface{}) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]interface{}:
		return str(typed["name"])
	case []interface{}:
		for _, entry := range typed {
			if name := category(entry); name != "" {
				return name
			}
		}
	}
	return ""
}

func image(m map[string]interface{}) string {
	if img := str(firstPresent(m, "image", "imageUrl", "imagePath")); img != "" {
		return img
	}
	if images, ok := m["images"].([]interface{}); ok {
		for _, entry := range images {
			if img := str(entry); img != "" {
				return img
			}
			if img := str(asMap(entry)["url"]); img != "" {
				return img
			}
		}
	}
	return ""
}

var orderStatuses = []string{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

// orderStatus maps known statuses onto their canonical spelling; unknown
// values pass through trimmed
func orderStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.OrderStatusPending
	}
	if strings.EqualFold(raw, "canceled") {
		return models.OrderStatusCancelled
	}
	for _, status := range orderStatuses {
		if strings.EqualFold(raw, status) {
			return status
		}
	}
	return raw
}

func paymentMode(raw string) string {
	switch strings.ToLower(strings.ReplaceAll(raw, " ", "")) {
	case "online", "card", "upi", "prepaid", "razorpay", "stripe":
		return models.PaymentOnline
	default:
		return models.PaymentCOD
	}
}
