package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/shop-services/internal/order-service/adapters/customerclient"
	"github.com/jcmexdev/shop-services/internal/order-service/ports"
	"github.com/jcmexdev/shop-services/internal/pkg/config"
	"github.com/jcmexdev/shop-services/internal/pkg/constants"
)

var (
	customerURL   string
	lookupTimeout time.Duration
	lookupRetries int
)

var lookupCustomerCmd = &cobra.Command{
	Use:   "lookup-customer <id>",
	Short: "Fetch a customer the way the order service does",
	Long: `Fetch a customer from the customer service with the order service's client,
including its timeout and retry policy. Useful to check connectivity from a
host that runs the order service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("customer id must be a positive integer, got %q", args[0])
		}

		cfg, err := config.Load(constants.OrderService, "")
		if err != nil {
			return err
		}
		if customerURL != "" {
			cfg.CustomerServiceURL = customerURL
		}
		if cmd.Flags().Changed("timeout") {
			cfg.CustomerLookupTimeout = lookupTimeout
		}
		if cmd.Flags().Changed("retries") {
			cfg.CustomerLookupRetries = lookupRetries
		}

		client := customerclient.New(cfg.CustomerServiceURL, cfg.CustomerLookupTimeout, cfg.CustomerLookupRetries)
		c, err := client.LookupCustomer(cmd.Context(), id)
		if errors.Is(err, ports.ErrCustomerNotFound) {
			return fmt.Errorf("customer %d not found", id)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			CustomerID      int64   `json:"customer_id"`
			Email           string  `json:"email"`
			ShippingAddress *string `json:"shipping_address"`
		}{c.ID, c.Email, c.ShippingAddress})
	},
}

func init() {
	rootCmd.AddCommand(lookupCustomerCmd)
	lookupCustomerCmd.Flags().StringVar(&customerURL, "customer-url", "", "Customer service base URL (defaults to CUSTOMER_SERVICE_URL)")
	lookupCustomerCmd.Flags().DurationVar(&lookupTimeout, "timeout", 5*time.Second, "Timeout per attempt")
	lookupCustomerCmd.Flags().IntVar(&lookupRetries, "retries", 2, "Retries after the first attempt")
}
