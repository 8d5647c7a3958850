package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcadapter "github.com/roomsync/roomsync-backend/internal/adapter/grpc"
	"github.com/roomsync/roomsync-backend/internal/usecase/ledger"
)

var (
	serverAddr string
	apiToken   string
	timeout    time.Duration
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <YYYY-MM>",
	Args:  cobra.ExactArgs(1),
	Short: "Fetch a month's fund status from a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := grpclib.NewClient(serverAddr, grpclib.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("connect to %s: %w", serverAddr, err)
		}
		defer conn.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client := grpcadapter.NewClient(conn, apiToken)
		fund, err := client.GetFundStatus(ctx, &grpcadapter.GetFundStatusRequest{Period: args[0]})
		if err != nil {
			return err
		}

		total, err := decimal.NewFromString(fund.TotalMealFund)
		if err != nil {
			return fmt.Errorf("server sent invalid total_meal_fund: %w", err)
		}
		spend, err := decimal.NewFromString(fund.TotalSpendings)
		if err != nil {
			return fmt.Errorf("server sent invalid total_spendings: %w", err)
		}
		remaining, err := decimal.NewFromString(fund.Remaining)
		if err != nil {
			return fmt.Errorf("server sent invalid remaining: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Period:      %s\n", fund.Period)
		renderRemaining(cmd.OutOrStdout(), total, spend, ledger.Remaining{Remaining: remaining, Percentage: fund.Percentage})
		return nil
	},
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&serverAddr, "addr", envOr("ROOMSYNC_ADDR", "localhost:8080"), "Server address.")
	statusCmd.Flags().StringVar(&apiToken, "token", envOr("API_TOKEN", "dev-token"), "API token.")
	statusCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Request timeout.")
}
