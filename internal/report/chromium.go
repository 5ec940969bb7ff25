package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"caixa-backend/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromiumRenderer HTML şablonunu headless Chromium ile PDF'e basar.
// Chromium yoksa hata döner; çağıran taraf tekrar deneyebilir.
type ChromiumRenderer struct {
	opts     Options
	execPath string
	timeout  time.Duration
}

func NewChromiumRenderer(opts Options, execPath string, timeout time.Duration) ChromiumRenderer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return ChromiumRenderer{opts: opts.withDefaults(), execPath: execPath, timeout: timeout}
}

func (r ChromiumRenderer) Render(ctx context.Context, rec models.ClosingRecord) ([]byte, error) {
	html, err := r.HTML(rec)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, r.timeout)
	defer cancelTimeout()

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, perr := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if perr == nil {
				pdfBuf = buf
			}
			return perr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp run failed: %w", err)
	}
	return pdfBuf, nil
}

// HTML - PDF'e basılacak sayfa; testlerde doğrudan kontrol edilir.
func (r ChromiumRenderer) HTML(rec models.ClosingRecord) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		Company  string
		Record   models.ClosingRecord
		Sections Sections
		Negative bool
		Now      string
	}{
		Company:  r.opts.CompanyName,
		Record:   rec,
		Sections: Lines(rec),
		Negative: rec.Balance < 0,
		Now:      r.opts.Now().In(r.opts.Location).Format("02/01/2006 15:04"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var reportTemplate = template.Must(template.New("closing").Parse(`<!doctype html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8" />
  <style>
    body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 24px; color: #0f172a; }
    header { background: #0f172a; color: #fff; padding: 12px 16px; border-bottom: 4px solid #f97316; }
    h1 { margin: 0; font-size: 20px; text-transform: uppercase; }
    .meta { display: flex; justify-content: space-between; margin: 16px 0; }
    h2 { font-size: 13px; text-transform: uppercase; border-bottom: 1px solid #e2e8f0; padding-bottom: 4px; }
    h2.in { color: #15803d; } h2.out { color: #b91c1c; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 12px; }
    td { padding: 6px 8px; } td.v { text-align: right; }
    .totals { background: #fff7ed; border-radius: 8px; }
    .final td { font-weight: bold; font-size: 16px; border-top: 1px solid #fed7aa; }
    .neg { color: #dc2626; } .pos { color: #ea580c; }
    footer { font-size: 10px; color: #64748b; margin-top: 24px; }
  </style>
</head>
<body>
  <header>
    <h1>{{.Company}}</h1>
    <div>Relatório de Fechamento de Caixa</div>
  </header>
  <div class="meta">
    <div>Data: {{.Record.DisplayDate}}</div>
    <div>Registro #{{.Record.ID}}</div>
  </div>

  <h2 class="in">Entradas</h2>
  <table>{{range .Sections.Inflows}}<tr><td>{{.Label}}</td><td class="v">{{.Display}}</td></tr>{{end}}</table>

  <h2 class="out">Saídas (Despesas / Pessoal)</h2>
  <table>{{range .Sections.Outflows}}<tr><td>{{.Label}}</td><td class="v">{{.Display}}</td></tr>{{end}}</table>

  <table class="totals">
  {{- range $i, $l := .Sections.Totals}}
    {{- if eq $i 2}}
    <tr class="final"><td>{{$l.Label}}</td><td class="v {{if $.Negative}}neg{{else}}pos{{end}}">{{$l.Display}}</td></tr>
    {{- else}}
    <tr><td>{{$l.Label}}</td><td class="v">{{$l.Display}}</td></tr>
    {{- end}}
  {{- end}}
  </table>
  <footer>Gerado em {{.Now}}</footer>
</body>
</html>
`))
