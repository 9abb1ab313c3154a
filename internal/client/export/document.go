// Package export turns a loaded remittance slip into a printable document.
// Nothing here talks to the backend.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
	"github.com/SscSPs/treasury_backoffice/internal/dto"
	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRowsPerPage is the number of cheque rows printed per page.
	DefaultRowsPerPage = 25

	// NotAssigned is printed when the slip has no deposit receipt yet.
	NotAssigned = "Non attribué"

	dateLayout = "02/01/2006"
)

// ErrNoSlipLoaded is returned when there is nothing to export.
var ErrNoSlipLoaded = errors.New("no remittance slip loaded")

// Format selects a renderer.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatCSV Format = "csv"
)

// ParseFormat accepts "pdf" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want pdf or csv)", s)
	}
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string { return "." + string(f) }

// Header is the slip summary printed above the cheque table.
type Header struct {
	SlipNumber    string
	ReceiptNumber string
	DepositDate   string
	Bank          string
	Account       string
	Status        string
	Notes         string
}

// Fields returns the header as ordered label/value pairs. Notes are left out
// when empty.
func (h Header) Fields() [][2]string {
	fields := [][2]string{
		{"Bordereau", h.SlipNumber},
		{"N° de reçu", h.ReceiptNumber},
		{"Date de dépôt", h.DepositDate},
		{"Banque", h.Bank},
		{"Compte", h.Account},
		{"Statut", h.Status},
	}
	if h.Notes != "" {
		fields = append(fields, [2]string{"Notes", h.Notes})
	}
	return fields
}

// Row is one member cheque.
type Row struct {
	Reference   string
	Payer       string
	CollectedAt string
	Amount      string
	Status      string
}

// Columns are the cheque table headings, in Row field order.
var Columns = []string{"Référence", "Tireur", "Date de collecte", "Montant", "Statut"}

func (r Row) values() []string {
	return []string{r.Reference, r.Payer, r.CollectedAt, r.Amount, r.Status}
}

// Page is a slice of the cheque table.
type Page struct {
	Number int
	Rows   []Row
}

// Document is a paginated snapshot of a slip.
type Document struct {
	Header      Header
	Pages       []Page
	TotalAmount decimal.Decimal
	Total       string
	Count       int
	GeneratedAt time.Time
}

type buildOptions struct {
	rowsPerPage int
	now         time.Time
}

// Option configures Build.
type Option func(*buildOptions)

// WithRowsPerPage overrides DefaultRowsPerPage. Values below 1 are ignored.
func WithRowsPerPage(n int) Option {
	return func(o *buildOptions) {
		if n > 0 {
			o.rowsPerPage = n
		}
	}
}

// WithGeneratedAt stamps the document with t instead of the current time.
func WithGeneratedAt(t time.Time) Option {
	return func(o *buildOptions) { o.now = t }
}

// Build snapshots slip. Totals are the server's figures, not a recount.
func Build(slip *dto.RemittanceResponse, opts ...Option) (*Document, error) {
	if slip == nil {
		return nil, ErrNoSlipLoaded
	}
	o := buildOptions{rowsPerPage: DefaultRowsPerPage, now: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}

	receipt := NotAssigned
	if slip.ReceiptNumber != nil && *slip.ReceiptNumber != "" {
		receipt = *slip.ReceiptNumber
	}
	status := slip.StatusLabel
	if status == "" {
		status = domain.RemittanceStatus(slip.Status).Label()
	}

	doc := &Document{
		Header: Header{
			SlipNumber:    slip.SlipNumber,
			ReceiptNumber: receipt,
			DepositDate:   slip.DepositDate.Format(dateLayout),
			Bank:          slip.BankName,
			Account:       slip.AccountLabel,
			Status:        status,
			Notes:         strings.TrimSpace(slip.Notes),
		},
		TotalAmount: slip.TotalAmount,
		Total:       utils.FormatAmount(slip.TotalAmount),
		Count:       slip.ChequeCount,
		GeneratedAt: o.now,
	}

	rows := make([]Row, len(slip.Cheques))
	for i, c := range slip.Cheques {
		amount := c.FormattedAmount
		if amount == "" {
			amount = utils.FormatAmount(c.PaidAmount)
		}
		label := c.StatusLabel
		if label == "" {
			label = domain.ChequeStatus(c.Status).Label()
		}
		rows[i] = Row{
			Reference:   c.ChequeReference,
			Payer:       c.PayerName,
			CollectedAt: c.CollectedAt.Format(dateLayout),
			Amount:      amount,
			Status:      label,
		}
	}
	doc.Pages = paginate(rows, o.rowsPerPage)
	return doc, nil
}

// paginate always returns at least one page so an empty slip still prints
// its header and totals.
func paginate(rows []Row, size int) []Page {
	if len(rows) == 0 {
		return []Page{{Number: 1, Rows: []Row{}}}
	}
	pages := make([]Page, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		pages = append(pages, Page{Number: len(pages) + 1, Rows: rows[start:end]})
	}
	return pages
}
