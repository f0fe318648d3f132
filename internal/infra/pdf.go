package infra

// pdf.go — Pricing report PDF generation using go-pdf/fpdf.
// Renders an A4 quotation document for a completed pricing session:
//   - Company name header
//   - Session reference, invoice number and timestamp
//   - Item table (description, category, unit cost USD, final price JMD)
//   - Bold session total
//
// The output file is saved to storagePath/report_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omfen/fenntech-internal-system-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInvoiceReportPDF renders the quotation PDF for an invoice pricing
// session. storagePath is created if needed; returns the absolute file path.
func GenerateInvoiceReportPDF(session *model.InvoiceSession, companyName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("report_%s.pdf", session.ID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Invoice Pricing Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	if session.InvoiceNumber != nil {
		pdf.CellFormat(contentW, 5, "Invoice #: "+*session.InvoiceNumber, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Session: "+session.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Priced: "+session.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Exchange rate (USD to JMD): "+session.ExchangeRate.StringFixed(4), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Rounded to the nearest $%d", session.RoundingOption), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Items table ───────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // description
	col2 := contentW * 0.20 // category
	col3 := contentW * 0.18 // cost USD
	col4 := contentW * 0.22 // final JMD

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Cost (USD)", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Price (JMD)", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range session.Items {
		desc := item.Description
		if len(desc) > 42 {
			desc = desc[:41] + "…"
		}
		pdf.CellFormat(col1, 6, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.CategoryName, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+item.UnitCostUSD.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+item.FinalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL (JMD):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+session.TotalValue.StringFixed(2), "", 1, "R", false, 0, "")

	if session.Notes != nil && *session.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+*session.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerateMarketplaceReportPDF renders the quotation PDF for a marketplace
// pricing session.
func GenerateMarketplaceReportPDF(session *model.MarketplaceSession, companyName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("report_%s.pdf", session.ID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Marketplace Pricing Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Product: "+session.ProductName, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Listing: "+session.SourceURL, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Session: "+session.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Priced: "+session.CreatedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	rows := []struct{ label, value string }{
		{"Unit cost (USD)", "$" + session.UnitCostUSD.StringFixed(2)},
		{"Cost plus sourcing fee (USD)", "$" + session.IntermediatePrice.StringFixed(4)},
		{"Markup", session.MarkupPercentage.StringFixed(2) + "%"},
		{"Selling price (USD)", "$" + session.SellingPriceUSD.StringFixed(4)},
		{"Exchange rate (USD to JMD)", session.ExchangeRate.StringFixed(4)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(contentW*0.6, 7, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 7, row.value, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW*0.6, 7, "SELLING PRICE (JMD):", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, "$"+session.SellingPriceJMD.StringFixed(2), "", 1, "R", false, 0, "")

	if session.Notes != nil && *session.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+*session.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
