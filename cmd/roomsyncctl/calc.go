package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roomsync/roomsync-backend/internal/domain"
	"github.com/roomsync/roomsync-backend/internal/usecase/ledger"
)

var (
	monthsAnchor  string
	monthsBack    int
	monthsForward int
	firstEntry    bool
)

var (
	warn = color.New(color.FgRed, color.Bold).SprintFunc()
	good = color.New(color.FgGreen).SprintFunc()
)

// monthsCmd represents the months command
var monthsCmd = &cobra.Command{
	Use:   "months",
	Args:  cobra.NoArgs,
	Short: "List the month selector around an anchor month",
	RunE: func(cmd *cobra.Command, _ []string) error {
		anchor := time.Now()
		if monthsAnchor != "" {
			p, err := domain.ParsePeriod(monthsAnchor)
			if err != nil {
				return err
			}
			anchor = p.Start()
		}

		options, err := ledger.GenerateMonthOptions(anchor, monthsBack, monthsForward)
		if err != nil {
			return err
		}
		for _, o := range options {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", o.Value, o.Label)
		}
		return nil
	},
}

// remainingCmd represents the remaining command
var remainingCmd = &cobra.Command{
	Use:   "remaining <total-fund> <total-spend>",
	Args:  cobra.ExactArgs(2),
	Short: "Compute the remaining fund and its percentage",
	RunE: func(cmd *cobra.Command, args []string) error {
		fund, err := domain.ParseAmount(args[0])
		if err != nil {
			return err
		}
		spend, err := domain.ParseAmount(args[1])
		if err != nil {
			return err
		}
		if fund.IsNegative() || spend.IsNegative() {
			return errors.New("total fund and total spend cannot be negative")
		}

		renderRemaining(cmd.OutOrStdout(), fund, spend, ledger.ComputeRemaining(fund, spend))
		return nil
	},
}

// adjustedCmd represents the adjusted command
var adjustedCmd = &cobra.Command{
	Use:   "adjusted <amount> [previous-month-dues]",
	Args:  cobra.RangeArgs(1, 2),
	Short: "Compute a first contribution adjusted by the previous month's dues",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := domain.ParseAmount(args[0])
		if err != nil {
			return err
		}

		var previous *decimal.Decimal
		if len(args) == 2 {
			if previous, err = domain.ParseOptionalAmount(args[1]); err != nil {
				return err
			}
		}

		adjusted := ledger.ComputeAdjustedAmount(amount, previous, firstEntry)
		if adjusted == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No adjustment")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Adjusted amount: %s\n", ledger.FormatAmount(*adjusted))
		return nil
	},
}

// renderRemaining prints the remaining fund with the clamped percentage used for display
func renderRemaining(w io.Writer, fund, spend decimal.Decimal, r ledger.Remaining) {
	fmt.Fprintf(w, "Total fund:  %s\n", ledger.FormatAmount(fund))
	fmt.Fprintf(w, "Total spend: %s\n", ledger.FormatAmount(spend))
	fmt.Fprintf(w, "Remaining:   %s\n", ledger.FormatAmount(r.Remaining))

	shown := fmt.Sprintf("%d%%", ledger.ClampPercentage(r.Percentage))
	if ledger.IsLowFund(r.Percentage) {
		shown = warn(shown + " (low)")
	} else {
		shown = good(shown)
	}
	fmt.Fprintf(w, "Percentage:  %s\n", shown)
}

func init() {
	rootCmd.AddCommand(monthsCmd)
	rootCmd.AddCommand(remainingCmd)
	rootCmd.AddCommand(adjustedCmd)

	monthsCmd.Flags().StringVar(&monthsAnchor, "anchor", "", "Anchor month as YYYY-MM (default: current month).")
	monthsCmd.Flags().IntVar(&monthsBack, "back", 5, "Months before the anchor.")
	monthsCmd.Flags().IntVar(&monthsForward, "forward", 6, "Months after the anchor.")
	adjustedCmd.Flags().BoolVar(&firstEntry, "first", true, "Whether this is the member's first entry of the month.")
}
