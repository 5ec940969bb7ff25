package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"caixa-backend/internal/calculator"
	"caixa-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saoPaulo = time.FixedZone("BRT", -3*3600)

func sampleRecord() models.ClosingRecord {
	created := time.Date(2025, 12, 9, 22, 30, 0, 0, saoPaulo)
	return models.NewClosingRecord("K3Q9", created.UnixMilli(), "09/12/2025", calculator.Amounts{
		Dinheiro: 100,
		Maquina1: 50,
		Felipe:   30,
		Loja:     20,
	})
}

func testOptions() Options {
	return Options{
		CompanyName: "Estação Café",
		Location:    saoPaulo,
		Now:         func() time.Time { return time.Date(2025, 12, 9, 23, 0, 0, 0, saoPaulo) },
	}
}

type stubRenderer struct {
	pdf []byte
	err error
}

func (s stubRenderer) Render(context.Context, models.ClosingRecord) ([]byte, error) {
	return s.pdf, s.err
}

type memorySink struct {
	files map[string][]byte
	err   error
}

func (m *memorySink) Deliver(name string, pdf []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.files[name] = pdf
	return "mem://" + name, nil
}

func TestLines(t *testing.T) {
	s := Lines(sampleRecord())

	require.Len(t, s.Inflows, 4)
	require.Len(t, s.Outflows, 5)
	require.Len(t, s.Totals, 3)
	assert.Equal(t, "Dinheiro", s.Inflows[0].Label)
	assert.Equal(t, "Técnicos", s.Outflows[3].Label)
	assert.Equal(t, 150.0, s.Totals[0].Amount)
	assert.Equal(t, 50.0, s.Totals[1].Amount)
	assert.Equal(t, 100.0, s.Totals[2].Amount)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "fechamento-2025-12-09-K3Q9.pdf", Filename(sampleRecord(), saoPaulo))
}

func TestNativeRenderer_ProducesPDF(t *testing.T) {
	rec := sampleRecord()
	before := rec

	pdf, err := NewNativeRenderer(testOptions()).Render(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 100)
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.Equal(t, before, rec)
}

func TestNativeRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNativeRenderer(testOptions()).Render(ctx, sampleRecord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChromiumRenderer_HTML(t *testing.T) {
	rec := sampleRecord()
	rec.Renan = 500
	rec.TotalOutflow = 550
	rec.Balance = -400

	html, err := NewChromiumRenderer(testOptions(), "", 0).HTML(rec)
	require.NoError(t, err)

	for _, want := range []string{
		"Estação Café",
		"09/12/2025",
		"#K3Q9",
		"Máquina 1",
		"Saída (Entrada)",
		"Total de Entradas",
		"Saldo Final",
		"150,00",
		"class=\"v neg\"",
		"Gerado em 09/12/2025 23:00",
	} {
		assert.Contains(t, html, want)
	}
}

func TestExporter_Success(t *testing.T) {
	sink := &memorySink{files: map[string][]byte{}}
	exp := Exporter{Renderer: stubRenderer{pdf: []byte("%PDF-fake")}, Sink: sink, Location: saoPaulo}

	path, err := exp.Export(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "mem://fechamento-2025-12-09-K3Q9.pdf", path)
	assert.Equal(t, []byte("%PDF-fake"), sink.files["fechamento-2025-12-09-K3Q9.pdf"])
}

func TestExporter_RenderFailure(t *testing.T) {
	sink := &memorySink{files: map[string][]byte{}}
	exp := Exporter{Renderer: stubRenderer{err: errors.New("chromium not found")}, Sink: sink}

	_, err := exp.Export(context.Background(), sampleRecord())
	require.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorContains(t, err, "chromium not found")
	assert.Empty(t, sink.files)
}

func TestExporter_SinkFailure(t *testing.T) {
	exp := Exporter{
		Renderer: stubRenderer{pdf: []byte("%PDF")},
		Sink:     &memorySink{err: errors.New("disk full")},
	}
	_, err := exp.Export(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := DirSink{Dir: dir}.Deliver("../escape.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}
