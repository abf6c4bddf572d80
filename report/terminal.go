package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
)

const amountWidth = 14

// pad right-aligns s in the amount column; widths are terminal cell widths,
// not byte counts, so the pound sign aligns.
func pad(s string) string {
	if w := runewidth.StringWidth(s); w < amountWidth {
		return strings.Repeat(" ", amountWidth-w) + s
	}
	return s
}

// Terminal writes a compact run summary.
func Terminal(w io.Writer, data *Data) {
	fmt.Fprintln(w, titleStyle.Render(data.Company))
	fmt.Fprintln(w, dimStyle.Render("Period ended "+data.PeriodEnd.Format("2 January 2006")))
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Trial balance"))
	fmt.Fprintf(w, "  Total debits  %s\n", pad(GBP(data.TotalDebits)))
	fmt.Fprintf(w, "  Total credits %s\n", pad(GBP(data.TotalCredits)))
	if data.Balanced {
		fmt.Fprintln(w, "  "+okStyle.Render("Balanced"))
	} else {
		diff := data.TotalDebits.Sub(data.TotalCredits).Abs()
		fmt.Fprintln(w, "  "+warnStyle.Render("Out of balance by "+GBP(diff)))
	}
	fmt.Fprintf(w, "  Profit/(loss) %s\n", pad(GBP(data.Profit)))
	fmt.Fprintln(w)

	if len(data.Disposals) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Capital gains"))
		fmt.Fprintf(w, "  Disposals     %s\n", pad(fmt.Sprintf("%d", len(data.Disposals))))
		fmt.Fprintf(w, "  Net gain      %s\n", pad(GBP(data.NetGain)))
		fmt.Fprintf(w, "  FIFO variance %s\n", pad(GBP(data.Variance)))
		fmt.Fprintln(w)
	}

	if data.Tax != nil {
		fmt.Fprintln(w, sectionStyle.Render("Corporation tax"))
		fmt.Fprintf(w, "  Taxable profit %s\n", pad(GBP(data.Tax.TaxableProfit)))
		fmt.Fprintf(w, "  Liability      %s\n", pad(GBP(data.Tax.Liability)))
		if data.Tax.Relief.Applicable && data.Tax.Relief.Disallowed.IsPositive() {
			fmt.Fprintf(w, "  %s\n", warnStyle.Render("Interest disallowed "+GBP(data.Tax.Relief.Disallowed)))
		}
		fmt.Fprintln(w)
	}

	if r := data.Reconciliation; r != nil && (r.HasBankExport || r.HasExpenseExport) {
		fmt.Fprintln(w, sectionStyle.Render("QuickBooks"))
		if r.HasBankExport {
			status := okStyle.Render("reconciled")
			if !r.BankReconciled {
				status = warnStyle.Render("off by " + GBP(r.BankDiff))
			}
			fmt.Fprintf(w, "  Bank     %s\n", status)
		}
		if r.HasExpenseExport {
			status := okStyle.Render("aligned")
			if !r.ExpensesAligned {
				status = warnStyle.Render("off by " + GBP(r.ExpenseDiff))
			}
			fmt.Fprintf(w, "  Expenses %s\n", status)
		}
		fmt.Fprintln(w)
	}

	for _, warning := range data.Warnings {
		fmt.Fprintln(w, warnStyle.Render("! ")+warning.String())
	}
}
