package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"caixa-backend/internal/currency"
	"caixa-backend/internal/models"

	"github.com/go-pdf/fpdf"
)

// NativeRenderer saf Go ile PDF üretir; Chromium gerektirmez.
type NativeRenderer struct {
	opts Options
}

func NewNativeRenderer(opts Options) NativeRenderer {
	return NativeRenderer{opts: opts.withDefaults()}
}

func (r NativeRenderer) Render(ctx context.Context, rec models.ClosingRecord) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252: á, é, ç...
	now := r.opts.Now().In(r.opts.Location)
	pdf.SetCreationDate(now)
	pdf.SetTitle(fmt.Sprintf("Fechamento %s #%s", rec.DisplayDate, rec.ID), true)
	pdf.SetSubject("Saldo "+currency.Fixed(rec.Balance)+" "+currency.Code, true)
	pdf.AddPage()

	// Başlık
	pdf.SetFillColor(15, 23, 42)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr(strings.ToUpper(r.opts.CompanyName)), "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr("Relatório de Fechamento de Caixa"), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(15, 23, 42)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(95, 7, tr("Data: "+rec.DisplayDate), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Registro #"+rec.ID), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	sections := Lines(rec)
	section := func(title string, lines []Line, r, g, b int) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
		pdf.SetTextColor(15, 23, 42)
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range lines {
			pdf.CellFormat(120, 7, tr(l.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, tr(l.Display()), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}
	section("ENTRADAS", sections.Inflows, 21, 128, 61)
	section("SAÍDAS (DESPESAS / PESSOAL)", sections.Outflows, 185, 28, 28)

	pdf.SetFillColor(255, 247, 237)
	for i, l := range sections.Totals {
		style := ""
		if i == len(sections.Totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 12)
		pdf.CellFormat(120, 9, tr(l.Label), "", 0, "L", true, 0, "")
		pdf.CellFormat(0, 9, tr(l.Display()), "", 1, "R", true, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, tr("Gerado em "+now.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")

	if pdf.Err() {
		return nil, fmt.Errorf("pdf oluşturulamadı: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf yazılamadı: %w", err)
	}
	return buf.Bytes(), nil
}
