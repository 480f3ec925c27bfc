package report

import (
	"math"
	"sort"
	"time"

	"admin-dashboard/internal/models"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

// HeatmapLevels is the number of non-empty color steps in the activity heatmap
const HeatmapLevels = 4

// Summary is the dashboard headline block
type Summary struct {
	Revenue           decimal.Decimal `json:"revenue"`
	Orders            int             `json:"orders"`
	CancelledOrders   int             `json:"cancelled_orders"`
	Customers         int             `json:"customers"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	PaymentMix        map[string]int  `json:"payment_mix"`
	StockStatus       map[string]int  `json:"stock_status"`
	TopProducts       []ProductSales  `json:"top_products"`
}

// ProductSales is one entry of the best sellers list
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

// Summarize computes the headline figures. Cancelled orders count only
// towards CancelledOrders.
func Summarize(orders []models.Order, customers *Customers, stock []models.StockItem) Summary {
	s := Summary{
		Revenue:           decimal.Zero,
		AverageOrderValue: decimal.Zero,
		PaymentMix:        map[string]int{models.PaymentCOD: 0, models.PaymentOnline: 0},
		StockStatus:       map[string]int{models.StockOut: 0, models.StockLow: 0, models.StockGood: 0},
		TopProducts:       []ProductSales{},
	}
	if customers != nil {
		s.Customers = customers.Len()
	}

	for _, order := range orders {
		if order.IsCancelled() {
			s.CancelledOrders++
			continue
		}
		s.Orders++
		s.Revenue = s.Revenue.Add(order.Total)
		s.PaymentMix[order.PaymentMode]++
	}
	if s.Orders > 0 {
		s.AverageOrderValue = s.Revenue.Div(decimal.NewFromInt(int64(s.Orders))).Round(2)
	}

	ranked := make([]ProductSales, 0, len(stock))
	for _, item := range stock {
		s.StockStatus[item.Status]++
		if item.TotalSold > 0 {
			ranked = append(ranked, ProductSales{ProductID: item.ProductID, Name: item.Name, UnitsSold: item.TotalSold})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UnitsSold > ranked[j].UnitsSold
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	s.TopProducts = append(s.TopProducts, ranked...)

	return s
}

// HeatmapCell is order activity for one weekday/hour slot
type HeatmapCell struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Orders  int          `json:"orders"`
	Level   int          `json:"level"`
}

// Heatmap is a 7×24 grid indexed [weekday][hour]
type Heatmap struct {
	Cells [7][24]HeatmapCell `json:"cells"`
	Max   int                `json:"max"`
}

// ActivityHeatmap buckets non-cancelled orders by local weekday and hour and
// scales each cell to a color level in [0, HeatmapLevels]. Only empty cells
// get level 0.
func ActivityHeatmap(orders []models.Order, loc *time.Location) Heatmap {
	if loc == nil {
		loc = time.UTC
	}

	var h Heatmap
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			h.Cells[day][hour] = HeatmapCell{Weekday: time.Weekday(day), Hour: hour}
		}
	}

	for _, order := range orders {
		if order.IsCancelled() || order.CreatedAt.IsZero() {
			continue
		}
		local := order.CreatedAt.In(loc)
		cell := &h.Cells[local.Weekday()][local.Hour()]
		cell.Orders++
		if cell.Orders > h.Max {
			h.Max = cell.Orders
		}
	}

	if h.Max == 0 {
		return h
	}
	for day := range h.Cells {
		for hour := range h.Cells[day] {
			cell := &h.Cells[day][hour]
			cell.Level = HeatLevel(cell.Orders, h.Max)
		}
	}
	return h
}

// HeatLevel maps count against max onto [0, HeatmapLevels]
func HeatLevel(count, max int) int {
	if count <= 0 || max <= 0 {
		return 0
	}
	level := int(math.Ceil(float64(count) / float64(max) * HeatmapLevels))
	if level > HeatmapLevels {
		return HeatmapLevels
	}
	return level
}
