package delivery

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx"
)

var exportHeader = []string{
	"Shipment ID",
	"Date/Time",
	"Recipient",
	"Location",
	"Produce Summary",
	"Weight (lbs)",
	"Crates",
	"Status",
}

func exportRow(d Delivery) []string {
	when := d.Datetime
	if t, ok := d.Time(); ok {
		when = t.Local().Format("1/2/2006, 3:04:05 PM")
	}
	return []string{
		d.ID,
		when,
		d.Recipient,
		d.RecipientLocation,
		strings.Join(d.ProduceSummary, "; "),
		strconv.FormatFloat(d.WeightLbs, 'f', -1, 64),
		strconv.Itoa(d.Crates),
		string(d.Status),
	}
}

// ExportFileName is the download name for an export taken at now.
func ExportFileName(now time.Time, ext string) string {
	return fmt.Sprintf("deliveries_export_%s.%s", now.UTC().Format("2006-01-02"), ext)
}

// WriteCSV writes rows with every cell quoted and lines joined by "\n".
func WriteCSV(w io.Writer, rows []Delivery) error {
	bw := bufio.NewWriter(w)
	write := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(c, `"`, `""`))
			bw.WriteByte('"')
		}
	}

	write(exportHeader)
	for _, d := range rows {
		bw.WriteByte('\n')
		write(exportRow(d))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return nil
}

// WriteXLSX writes rows as a single "Deliveries" sheet.
func WriteXLSX(w io.Writer, rows []Delivery) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Deliveries")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeader {
		headerRow.AddCell().SetValue(h)
	}

	for _, d := range rows {
		row := sheet.AddRow()
		cells := exportRow(d)
		for i, c := range cells {
			switch i {
			case 5:
				row.AddCell().SetValue(d.WeightLbs)
			case 6:
				row.AddCell().SetValue(d.Crates)
			default:
				row.AddCell().SetValue(c)
			}
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return nil
}
