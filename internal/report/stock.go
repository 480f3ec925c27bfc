package report

import "admin-dashboard/internal/models"

// StockStatus classifies an on-hand count. Negative counts read as Out.
func StockStatus(stock int) string {
	switch {
	case stock <= 0:
		return models.StockOut
	case stock < models.LowStockThreshold:
		return models.StockLow
	default:
		return models.StockGood
	}
}

// UnitsSold sums line item quantities per product id over non-cancelled orders
func UnitsSold(orders []models.Order) map[string]int {
	sold := make(map[string]int)
	for _, order := range orders {
		if order.IsCancelled() {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == "" {
				continue
			}
			sold[item.ProductID] += item.Quantity
		}
	}
	return sold
}

// ReconcileStock builds one stock item per product, in product order
func ReconcileStock(products []models.Product, orders []models.Order) []models.StockItem {
	sold := UnitsSold(orders)

	items := make([]models.StockItem, 0, len(products))
	for _, p := range products {
		items = append(items, models.StockItem{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Image:     p.Image,
			Stock:     p.Stock,
			Unit:      p.Unit,
			TotalSold: sold[p.ID],
			Status:    StockStatus(p.Stock),
		})
	}
	return items
}
