package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"main/internal/domain/entity/book"
)

// WriteSummary prints both sides of an aggregated book as plain-text
// tables, buys first.
func WriteSummary(w io.Writer, summary book.Summary) error {
	if err := writeSide(w, "Buy Orders", summary.Buys); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeSide(w, "Sell Orders", summary.Sells)
}

func writeSide(w io.Writer, title string, levels []book.PriceLevel) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(levels) == 0 {
		_, err := fmt.Fprintln(w, "(no resting orders)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRICE\tORDERS\tQTY")
	for _, level := range levels {
		fmt.Fprintf(tw, "%.2f\t%d\t%d\n", level.Price, level.OrderCount, level.TotalQty)
	}
	return tw.Flush()
}
