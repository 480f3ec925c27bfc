// Command dashctl prints dashboard views straight from the backend,
// without the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"admin-dashboard/config"
	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/backend"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var (
	verbose bool
	timeout time.Duration

	searchTerm  string
	sortKey     string
	stockFilter string
	pageNumber  int
)

var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "Inspect customers, stock and sales from the store backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env := "production"
		if verbose {
			env = "development"
		}
		return util.InitLogger(env, "dashctl")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.SyncLogger()
	},
	SilenceUsage: true,
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List customers with search, sort and paging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dashboard, err := load(cmd.Context())
		if err != nil {
			return err
		}
		return printCustomers(cmd.OutOrStdout(), dashboard, searchTerm, sortKey, pageNumber)
	},
}

var customerCmd = &cobra.Command{
	Use:   "customer <id>",
	Short: "Show one customer's totals and purchase history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dashboard, err := load(cmd.Context())
		if err != nil {
			return err
		}
		return printCustomer(cmd.OutOrStdout(), dashboard, args[0])
	},
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "List stock levels reconciled against sales",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dashboard, err := load(cmd.Context())
		if err != nil {
			return err
		}
		return printStock(cmd.OutOrStdout(), dashboard, searchTerm, stockFilter, pageNumber)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print revenue, order counts and best sellers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dashboard, err := load(cmd.Context())
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), dashboard)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Fetch timeout")

	customersCmd.Flags().StringVarP(&searchTerm, "search", "s", "", "Match name, phone or state")
	customersCmd.Flags().StringVar(&sortKey, "sort", "", "highestSpent, mostOrders, latest or alpha")
	customersCmd.Flags().IntVarP(&pageNumber, "page", "p", 1, "Page number")

	stockCmd.Flags().StringVarP(&searchTerm, "search", "s", "", "Match name, SKU or category")
	stockCmd.Flags().StringVar(&stockFilter, "status", "", "out, low or good")
	stockCmd.Flags().IntVarP(&pageNumber, "page", "p", 1, "Page number")

	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(customerCmd)
	rootCmd.AddCommand(stockCmd)
	rootCmd.AddCommand(summaryCmd)
}

// load fetches one snapshot; a CLI run has nothing stale to fall back on
func load(ctx context.Context) (*service.DashboardService, error) {
	cfg := config.Load()

	var tokens auth.TokenSource
	switch {
	case cfg.Backend.Token != "":
		tokens = auth.StaticToken(cfg.Backend.Token)
	case cfg.Auth.JWTSecret != "":
		tokens = auth.NewServiceTokenSource(cfg.Auth.JWTSecret, "dashctl", cfg.Auth.ServiceTokenTTL)
	}

	client := backend.NewClient(backend.Options{
		BaseURL:      cfg.Backend.BaseURL,
		OrdersPath:   cfg.Backend.OrdersPath,
		ProductsPath: cfg.Backend.ProductsPath,
		Timeout:      cfg.Backend.Timeout,
	}, tokens)

	locale, err := language.Parse(cfg.Dashboard.Locale)
	if err != nil {
		locale = language.English
	}
	location, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		location = time.UTC
	}

	dashboard := service.NewDashboardService(client, nil, service.DashboardOptions{
		PageSize: cfg.Dashboard.PageSize,
		Locale:   locale,
		Location: location,
	})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := dashboard.Refresh(ctx); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
