package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// Render writes the document in format f.
func (d *Document) Render(w io.Writer, f Format) error {
	switch f {
	case FormatPDF:
		return d.WritePDF(w)
	case FormatCSV:
		return d.WriteCSV(w)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteCSV writes a semicolon-separated file: header fields, a blank line,
// the cheque table and the totals.
func (d *Document) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	for _, f := range d.Header.Fields() {
		if err := cw.Write([]string{f[0], f[1]}); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	records := [][]string{{}, Columns}
	for _, p := range d.Pages {
		for _, r := range p.Rows {
			records = append(records, r.values())
		}
	}
	records = append(records,
		[]string{},
		[]string{"Total", d.Total},
		[]string{"Nombre de chèques", strconv.Itoa(d.Count)},
	)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

var pdfColumnWidths = []float64{35, 55, 35, 30, 35}

// WritePDF renders an A4 portrait PDF, one document page per PDF page.
func (d *Document) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bordereau de remise "+d.Header.SlipNumber, true)
	pdf.SetCreator("treasury", true)
	pdf.SetCreationDate(d.GeneratedAt)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s - page %d/{nb}", d.Header.SlipNumber, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	for i, page := range d.Pages {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr("Bordereau de remise de chèques"), "", 1, "L", false, 0, "")

		if i == 0 {
			pdf.SetFont("Helvetica", "", 10)
			for _, f := range d.Header.Fields() {
				pdf.SetFont("Helvetica", "B", 10)
				pdf.CellFormat(40, 6, tr(f[0]), "", 0, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 10)
				pdf.MultiCell(0, 6, tr(f[1]), "", "L", false)
			}
			pdf.Ln(4)
		}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for c, col := range Columns {
			pdf.CellFormat(pdfColumnWidths[c], 7, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range page.Rows {
			for c, v := range r.values() {
				align := "L"
				if c == 3 {
					align = "R"
				}
				pdf.CellFormat(pdfColumnWidths[c], 6, tr(v), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}

		if i == len(d.Pages)-1 {
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(125, 7, tr("Total"), "1", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, tr(d.Total), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 7, tr(fmt.Sprintf("%d chèque(s)", d.Count)), "1", 1, "C", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
