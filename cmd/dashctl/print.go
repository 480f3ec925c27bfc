package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/view"
)

const dateLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printCustomers(w io.Writer, dashboard *service.DashboardService, search, sort string, page int) error {
	key, err := view.ParseSortKey(sort)
	if err != nil {
		return err
	}

	state := view.NewState()
	state.SetSort(key)
	state.SetSearch(search)
	state.SetPage(page)

	result, _ := dashboard.Customers(state.CustomerQuery())
	state.Clamp(result.TotalItems, result.PageSize)

	if result.TotalItems == 0 {
		fmt.Fprintln(w, "No customers found.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSTATE\tORDERS\tSPENT\tLAST ORDER")
	for _, c := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			c.ID, c.Name, c.Phone, c.State, c.TotalOrders, c.TotalSpent.StringFixed(2), c.LastOrderDate.Format(dateLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Page %d of %d (%d customers)\n", state.Page(), result.TotalPages, result.TotalItems)
	return nil
}

func printCustomer(w io.Writer, dashboard *service.DashboardService, id string) error {
	c, _, err := dashboard.Customer(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "Phone: %s  State: %s\n", c.Phone, c.State)
	fmt.Fprintf(w, "Orders: %d  Spent: %s\n\n", c.TotalOrders, c.TotalSpent.StringFixed(2))

	tw := newTable(w)
	fmt.Fprintln(tw, "ORDER\tDATE\tSTATUS\tPAYMENT\tITEMS\tTOTAL")
	for _, rec := range c.History {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			rec.OrderNumber, rec.Date.Format(dateLayout), rec.Status, rec.PaymentMode, len(rec.Items), rec.Total.StringFixed(2))
	}
	return tw.Flush()
}

func printStock(w io.Writer, dashboard *service.DashboardService, search, status string, page int) error {
	filter, err := view.ParseStockStatus(status)
	if err != nil {
		return err
	}

	result, _ := dashboard.Stock(view.StockQuery{Search: search, Status: filter, Page: page})
	if result.TotalItems == 0 {
		fmt.Fprintln(w, "No stock items found.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "SKU\tNAME\tSTOCK\tUNIT\tSOLD\tSTATUS")
	for _, item := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			item.SKU, item.Name, item.Stock, item.Unit, item.TotalSold, item.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Page %d of %d (%d products)\n", result.Page, result.TotalPages, result.TotalItems)
	return nil
}

func printSummary(w io.Writer, dashboard *service.DashboardService) error {
	s, _ := dashboard.Summary()

	fmt.Fprintf(w, "Revenue:         %s\n", s.Revenue.StringFixed(2))
	fmt.Fprintf(w, "Orders:          %d (%d cancelled)\n", s.Orders, s.CancelledOrders)
	fmt.Fprintf(w, "Customers:       %d\n", s.Customers)
	fmt.Fprintf(w, "Average order:   %s\n", s.AverageOrderValue.StringFixed(2))
	fmt.Fprintf(w, "Payment mix:     COD %d / Online %d\n", s.PaymentMix[models.PaymentCOD], s.PaymentMix[models.PaymentOnline])
	fmt.Fprintf(w, "Stock:           %d out, %d low, %d good\n",
		s.StockStatus[models.StockOut], s.StockStatus[models.StockLow], s.StockStatus[models.StockGood])

	if len(s.TopProducts) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nTop products:")
	tw := newTable(w)
	for i, p := range s.TopProducts {
		fmt.Fprintf(tw, "%d.\t%s\t%d sold\n", i+1, p.Name, p.UnitsSold)
	}
	return tw.Flush()
}
