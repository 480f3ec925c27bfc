package view

import (
	"fmt"
	"slices"

	"admin-dashboard/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the single active customer ordering
type SortKey string

const (
	SortHighestSpent SortKey = "highestSpent"
	SortMostOrders   SortKey = "mostOrders"
	SortLatest       SortKey = "latest"
	SortAlpha        SortKey = "alpha"
)

// ParseSortKey accepts the four sort keys; blank means highestSpent
func ParseSortKey(raw string) (SortKey, error) {
	switch key := SortKey(raw); key {
	case "":
		return SortHighestSpent, nil
	case SortHighestSpent, SortMostOrders, SortLatest, SortAlpha:
		return key, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", raw)
	}
}

// CustomerFields are the searchable customer fields
func CustomerFields(c models.CustomerAggregate) []string {
	return []string{c.Name, c.Phone, c.State}
}

// SortCustomers returns a stably sorted copy; ties keep input order
func SortCustomers(customers []models.CustomerAggregate, key SortKey, tag language.Tag) []models.CustomerAggregate {
	out := slices.Clone(customers)

	switch key {
	case SortMostOrders:
		slices.SortStableFunc(out, func(a, b models.CustomerAggregate) int {
			return b.TotalOrders - a.TotalOrders
		})
	case SortLatest:
		slices.SortStableFunc(out, func(a, b models.CustomerAggregate) int {
			return b.LastOrderDate.Compare(a.LastOrderDate)
		})
	case SortAlpha:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b models.CustomerAggregate) int {
			return col.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.CustomerAggregate) int {
			return b.TotalSpent.Cmp(a.TotalSpent)
		})
	}
	return out
}

// CustomerQuery is the (search, sort, page) triple of the customer screen
type CustomerQuery struct {
	Search string
	Sort   SortKey
	Page   int
}

// Customers filters, sorts and pages the aggregate list
func Customers(all []models.CustomerAggregate, q CustomerQuery, size int, tag language.Tag) Page[models.CustomerAggregate] {
	filtered := Filter(all, q.Search, CustomerFields)
	sorted := SortCustomers(filtered, q.Sort, tag)
	return Paginate(sorted, q.Page, size)
}
