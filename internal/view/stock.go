package view

import (
	"fmt"
	"strings"

	"admin-dashboard/internal/models"
)

// ProductFields are the searchable stock fields
func ProductFields(s models.StockItem) []string {
	return []string{s.Name, s.SKU, s.Category}
}

// ParseStockStatus accepts out, low or good in any case; blank means all
func ParseStockStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "out":
		return models.StockOut, nil
	case "low":
		return models.StockLow, nil
	case "good":
		return models.StockGood, nil
	default:
		return "", fmt.Errorf("unknown stock status %q", raw)
	}
}

// StockQuery is the (search, status, page) triple of the stock screen
type StockQuery struct {
	Search string
	Status string
	Page   int
}

// Stock filters and pages stock items, keeping product order
func Stock(all []models.StockItem, q StockQuery, size int) Page[models.StockItem] {
	filtered := Filter(all, q.Search, ProductFields)
	if q.Status != "" {
		kept := filtered[:0]
		for _, item := range filtered {
			if item.Status == q.Status {
				kept = append(kept, item)
			}
		}
		filtered = kept
	}
	return Paginate(filtered, q.Page, size)
}
