package ledger

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildBackupRows flattens one client's position into export rows, one
// per touched plate size, sorted by size label. A client with no
// activity still gets a single "No Activity" row so every client
// appears in the backup.
func BuildBackupRows(c ClientInfo, docs clientDocs, now time.Time) []BackupRow {
	balances := Aggregate(docs.issues, docs.rets)
	active, completed := Classify(docs.issues, balances, now)

	total := 0
	for _, b := range balances {
		total += b.Outstanding
	}
	last := lastActivityDate(docs)

	if len(balances) == 0 {
		return []BackupRow{{
			ClientID:  c.ClientID,
			Name:      c.Name,
			Site:      c.Site,
			Mobile:    c.Mobile,
			PlateSize: "No Activity",
		}}
	}

	sizes := make([]string, 0, len(balances))
	for size := range balances {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)

	rows := make([]BackupRow, 0, len(sizes))
	for _, size := range sizes {
		b := balances[size]
		rows = append(rows, BackupRow{
			ClientID:         c.ClientID,
			Name:             c.Name,
			Site:             c.Site,
			Mobile:           c.Mobile,
			TotalOutstanding: total,
			PlateSize:        size,
			TotalIssued:      b.TotalBorrowed,
			TotalReturned:    b.TotalReturned,
			Balance:          b.Outstanding,
			ActiveCount:      len(active),
			CompletedCount:   len(completed),
			LastActivity:     last,
		})
	}
	return rows
}

var csvHeader = []string{
	"Client ID", "Name", "Site", "Mobile", "Total Outstanding", "Plate Size",
	"Total Issued", "Total Returned", "Current Balance",
	"Active Challans", "Completed Challans", "Last Activity",
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV emits the backup. Text fields are always double-quoted,
// numeric fields bare; encoding/csv only quotes on demand, so the rows
// are formatted by hand to keep the file layout fixed.
func WriteCSV(w io.Writer, rows []BackupRow) error {
	header := make([]string, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = quote(h)
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, ",")); err != nil {
		return err
	}

	for _, r := range rows {
		fields := []string{
			quote(r.ClientID),
			quote(r.Name),
			quote(r.Site),
			quote(r.Mobile),
			strconv.Itoa(r.TotalOutstanding),
			quote(r.PlateSize),
			strconv.Itoa(r.TotalIssued),
			strconv.Itoa(r.TotalReturned),
			strconv.Itoa(r.Balance),
			strconv.Itoa(r.ActiveCount),
			strconv.Itoa(r.CompletedCount),
			quote(r.LastActivity),
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// BuildWorkbook renders the same rows as a spreadsheet.
func BuildWorkbook(rows []BackupRow) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Ledger"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []any{
			r.ClientID, r.Name, r.Site, r.Mobile, r.TotalOutstanding, r.PlateSize,
			r.TotalIssued, r.TotalReturned, r.Balance,
			r.ActiveCount, r.CompletedCount, r.LastActivity,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
