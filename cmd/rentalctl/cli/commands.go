package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Net-Advantage/ai-showcase/rental/internal/app"
	"github.com/Net-Advantage/ai-showcase/rental/internal/services"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the record store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				// app.New has already migrated
				fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", a.DB.Driver)
				return nil
			})
		},
	}
}

func NewPortfolioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Print the current-year portfolio summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				summary, err := a.Portfolio.Summary(ctx)
				if err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func NewRecalculateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate",
		Short: "Recalculate every current-year workpaper of an active property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				count, err := a.Portfolio.Recalculate(ctx, a.Actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recalculated %d workpaper(s)\n", count)
				return nil
			})
		},
	}
}

func printSummary(out io.Writer, s *services.PortfolioSummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Tax year\t%s\n", s.TaxYear)
	fmt.Fprintf(w, "Properties\t%d\n", s.PropertyCount)
	fmt.Fprintf(w, "Total income\t%s\n", services.FormatMoney(s.TotalIncome))
	fmt.Fprintf(w, "Total expenses\t%s\n", services.FormatMoney(s.TotalExpenses))
	fmt.Fprintf(w, "Net position\t%s\n", services.FormatMoney(s.NetPosition))
	fmt.Fprintf(w, "Loss carry-forward\t%s\n", services.FormatMoney(s.LossCarryForward))
	fmt.Fprintf(w, "Completed\t%d\n", s.CompletedCount)
	fmt.Fprintf(w, "With warnings\t%d\n", s.WarningCount)
	return w.Flush()
}
