package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"calc-api/internal/finance"
)

func newAmortizeCmd() *cobra.Command {
	var (
		in      finance.LoanInput
		summary bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "amortize",
		Short:   "Print a fixed-rate loan amortization schedule",
		Example: `  calc amortize --principal 200000 --rate 6 --months 360 --summary`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := finance.Amortize(in)
			if err != nil {
				return err
			}
			if summary {
				s.Payments = nil
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, s)
			}

			if len(s.Payments) > 0 {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "month\tpayment\tprincipal\tinterest\textra\tbalance\t")
				for _, p := range s.Payments {
					fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
						p.Month, p.Payment, p.Principal, p.Interest, p.Extra, p.Balance)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}

			fmt.Fprintf(out, "monthly payment: %.2f\n", s.MonthlyPayment)
			fmt.Fprintf(out, "months:          %d\n", s.Months)
			fmt.Fprintf(out, "total paid:      %.2f\n", s.TotalPaid)
			fmt.Fprintf(out, "total interest:  %.2f\n", s.TotalInterest)
			if s.TotalExtra > 0 {
				fmt.Fprintf(out, "total extra:     %.2f\n", s.TotalExtra)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.Principal, "principal", 0, "amount borrowed")
	cmd.Flags().Float64Var(&in.AnnualRate, "rate", 0, "nominal annual rate in percent")
	cmd.Flags().IntVar(&in.TermMonths, "months", 0, "term in months")
	cmd.Flags().Float64Var(&in.ExtraMonthly, "extra", 0, "extra principal paid each month")
	cmd.Flags().BoolVar(&summary, "summary", false, "print totals only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("months")

	return cmd
}

func newCompoundCmd() *cobra.Command {
	var (
		in     finance.GrowthInput
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "compound",
		Short:   "Project a savings balance under compound interest",
		Example: `  calc compound --principal 1000 --rate 5 --per-year 12 --years 10 --contribution 100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := finance.CompoundGrowth(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, g)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "year\tbalance\tcontributions\tinterest\t")
			for _, y := range g.Years {
				fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t\n", y.Year, y.Balance, y.Contributions, y.Interest)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nfinal balance (%s): %.2f\n", g.Compounding, g.FinalBalance)
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.Principal, "principal", 0, "starting balance")
	cmd.Flags().Float64Var(&in.AnnualRate, "rate", 0, "nominal annual rate in percent")
	cmd.Flags().IntVar(&in.CompoundsPerYear, "per-year", 12, "compounding periods per year (1, 2, 4, 12 or 365)")
	cmd.Flags().IntVar(&in.Years, "years", 0, "number of years")
	cmd.Flags().Float64Var(&in.MonthlyContribution, "contribution", 0, "deposit added at the end of each month")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("years")

	return cmd
}
