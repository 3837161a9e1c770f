package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/riskibarqy/pick-ledger/internal/domain/pick"
	"github.com/riskibarqy/pick-ledger/internal/usecase"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func writeRows(out io.Writer, rows []pick.ViewRow) error {
	tw := newTable(out)
	fmt.Fprintln(tw, strings.Join(pick.ViewColumns, "\t"))
	for _, row := range rows {
		cells := row.Cells()
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprint(cell)
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d picks\n", len(rows))
	return err
}

func writeSummary(out io.Writer, summaries []pick.OwnerSummary) error {
	tw := newTable(out)
	fmt.Fprintln(tw, "Owner\tActive Picks\tAcquired\tTraded Away\tTotal Value")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Owner.Name, s.ActivePicks, s.Acquired, s.TradedAway, s.TotalValue.StringFixed(2))
	}
	return tw.Flush()
}

func writeStatus(out io.Writer, status usecase.LedgerStatus) error {
	tw := newTable(out)
	fmt.Fprintf(tw, "refreshed at\t%s\n", status.RefreshedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(tw, "reference season\t%d\n", status.ReferenceSeason)
	fmt.Fprintf(tw, "max fetched season\t%d\n", status.MaxFetchedSeason)
	fmt.Fprintf(tw, "records\t%d\n", status.RecordCount)
	fmt.Fprintf(tw, "active\t%d\n", status.ActiveCount)
	fmt.Fprintf(tw, "future\t%d\n", status.FutureCount)
	return tw.Flush()
}

func writeTrade(out io.Writer, result usecase.TradeResult) error {
	_, err := fmt.Fprintf(out, "%d round %d (originally %s): %s -> %s, value %s\n",
		result.Active.Season,
		result.Active.Round,
		result.Active.OriginalOwner.Name,
		result.Superseded.CurrentOwner.Name,
		result.Active.CurrentOwner.Name,
		result.Active.Value.StringFixed(2),
	)
	return err
}
