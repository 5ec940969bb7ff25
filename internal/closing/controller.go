package closing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"caixa-backend/internal/calculator"
	"caixa-backend/internal/ledger"
	"caixa-backend/internal/models"
	"caixa-backend/internal/report"
)

type State string

const (
	StateEditing State = "editing"
	StateClosing State = "closing" // kayıt + export sürüyor, form kilitli
)

type Status string

const (
	StatusSaved             Status = "saved"
	StatusSavedExportFailed Status = "saved_export_failed"
	StatusSaveFailed        Status = "save_failed"
	StatusCancelled         Status = "cancelled"
)

var (
	ErrNothingToClose       = errors.New("nenhum valor informado")
	ErrBusy                 = errors.New("fechamento em andamento")
	ErrConfirmationRequired = errors.New("exclusão requer confirmação")
	ErrNotFound             = errors.New("fechamento não encontrado")
)

// LedgerStore - *ledger.Store bu arayüzü sağlar.
type LedgerStore interface {
	Load(ctx context.Context) ([]models.ClosingRecord, error)
	Save(ctx context.Context, rec models.ClosingRecord) error
	Delete(ctx context.Context, id string) (bool, error)
}

type Exporter interface {
	Export(ctx context.Context, rec models.ClosingRecord) (string, error)
}

// Outcome bir kapanışın sonucu. "Kaydedildi ama PDF üretilemedi" ile
// "kaydedilemedi" ayrı durumlardır.
type Outcome struct {
	Status     Status               `json:"status"`
	Record     models.ClosingRecord `json:"record"`
	ExportPath string               `json:"export_path,omitempty"`
	Error      string               `json:"error,omitempty"`
	FinishedAt time.Time            `json:"finished_at"`

	Err error `json:"-"`
}

func (o Outcome) Saved() bool {
	return o.Status == StatusSaved || o.Status == StatusSavedExportFailed
}

type Options struct {
	Delay    time.Duration
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
	Logger   *slog.Logger
}

// DraftView - formun anlık hali ve canlı toplamlar.
type DraftView struct {
	State   State              `json:"state"`
	Fields  calculator.Draft   `json:"fields"`
	Amounts calculator.Amounts `json:"amounts"`
	Totals  calculator.Totals  `json:"totals"`
}

type Controller struct {
	store    LedgerStore
	exporter Exporter
	renderer report.Renderer
	opts     Options
	log      *slog.Logger

	// Kapanış goroutine'leri bu context'i dinler; iptal sadece Shutdown'da.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// ioMu store üzerindeki oku-değiştir-yaz adımlarını sıraya koyar.
	ioMu sync.Mutex

	mu      sync.Mutex
	state   State
	draft   calculator.Draft
	history []models.ClosingRecord // en yeni başta; store'un önbelleği
	last    *Outcome
}

func NewController(store LedgerStore, exporter Exporter, renderer report.Renderer, opts Options) *Controller {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = ledger.NewID
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		store:    store,
		exporter: exporter,
		renderer: renderer,
		opts:     opts,
		log:      opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
		state:    StateEditing,
	}
	c.ioMu.Lock()
	_ = c.refreshLocked(ctx)
	c.ioMu.Unlock()
	return c
}

func (c *Controller) Location() *time.Location { return c.opts.Location }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Draft() DraftView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() DraftView {
	a, t := calculator.Calculate(c.draft)
	return DraftView{State: c.state, Fields: c.draft, Amounts: a, Totals: t}
}

// UpdateDraft alanları birleştirir ve yeni toplamları döner.
func (c *Controller) UpdateDraft(values map[string]string) (DraftView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosing {
		return c.viewLocked(), ErrBusy
	}
	if err := c.draft.Merge(values); err != nil {
		return c.viewLocked(), err
	}
	return c.viewLocked(), nil
}

func (c *Controller) ClearDraft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosing {
		return ErrBusy
	}
	c.draft = calculator.Draft{}
	return nil
}

// Submit editing -> closing geçişini başlatır. Dönen kanal, gecikme dolup
// kayıt ve export bittiğinde tek bir Outcome verir ve kapanır.
func (c *Controller) Submit() (<-chan Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosing {
		return nil, ErrBusy
	}
	amounts, _ := calculator.Calculate(c.draft)
	if amounts.IsZero() {
		return nil, ErrNothingToClose
	}

	now := c.opts.Now().In(c.opts.Location)
	rec := models.NewClosingRecord(c.opts.NewID(), now.UnixMilli(), now.Format("02/01/2006"), amounts)
	c.state = StateClosing

	done := make(chan Outcome, 1)
	c.wg.Add(1)
	go c.run(rec, done)
	return done, nil
}

func (c *Controller) run(rec models.ClosingRecord, done chan<- Outcome) {
	defer c.wg.Done()
	defer close(done)

	timer := time.NewTimer(c.opts.Delay)
	defer timer.Stop()

	select {
	case <-c.ctx.Done():
		out := Outcome{Status: StatusCancelled, Record: rec, Err: c.ctx.Err(), Error: "fechamento cancelado"}
		done <- c.finish(out, false)
		return
	case <-timer.C:
	}

	done <- c.complete(rec)
}

func (c *Controller) complete(rec models.ClosingRecord) Outcome {
	// Başlamış bir kayıt Shutdown sırasında yarıda kesilmez.
	ctx := context.WithoutCancel(c.ctx)

	c.ioMu.Lock()
	if err := c.store.Save(ctx, rec); err != nil {
		c.ioMu.Unlock()
		c.log.Error("kapanış kaydedilemedi",
			slog.String("id", rec.ID),
			slog.String("error", err.Error()),
		)
		return c.finish(Outcome{Status: StatusSaveFailed, Record: rec, Err: err, Error: err.Error()}, false)
	}
	if err := c.refreshLocked(ctx); err != nil {
		// kayıt yazıldı; önbellekte de görünmeli
		c.mu.Lock()
		c.history = append([]models.ClosingRecord{rec}, c.history...)
		c.mu.Unlock()
	}
	c.ioMu.Unlock()

	out := Outcome{Status: StatusSaved, Record: rec}
	path, err := c.exporter.Export(ctx, rec)
	if err != nil {
		c.log.Warn("kapanış kaydedildi, PDF üretilemedi",
			slog.String("id", rec.ID),
			slog.String("error", err.Error()),
		)
		out.Status = StatusSavedExportFailed
		out.Err = err
		out.Error = err.Error()
	} else {
		out.ExportPath = path
		c.log.Info("kapanış tamamlandı",
			slog.String("id", rec.ID),
			slog.Float64("balance", rec.Balance),
			slog.String("export", path),
		)
	}
	return c.finish(out, true)
}

func (c *Controller) finish(out Outcome, clearDraft bool) Outcome {
	out.FinishedAt = c.opts.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing
	if clearDraft {
		c.draft = calculator.Draft{}
	}
	c.last = &out
	return out
}

func (c *Controller) LastOutcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Outcome{}, false
	}
	return *c.last, true
}

// History en yeni kapanış başta olacak şekilde döner.
func (c *Controller) History() []models.ClosingRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ClosingRecord, len(c.history))
	copy(out, c.history)
	return out
}

// refreshLocked önbelleği store'dan yeniden kurar. ioMu tutulmalı.
// Okuma başarısızsa önbellek olduğu gibi kalır.
func (c *Controller) refreshLocked(ctx context.Context) error {
	records, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("geçmiş yenilenemedi, önbellek korunuyor", slog.String("error", err.Error()))
		return err
	}
	newestFirst := make([]models.ClosingRecord, len(records))
	for i, r := range records {
		newestFirst[len(records)-1-i] = r
	}
	c.mu.Lock()
	c.history = newestFirst
	c.mu.Unlock()
	return nil
}

// Delete onay olmadan hiçbir şey silmez. Bilinmeyen id no-op.
func (c *Controller) Delete(ctx context.Context, id string, confirmed bool) (bool, error) {
	if !confirmed {
		return false, ErrConfirmationRequired
	}

	c.ioMu.Lock()
	defer c.ioMu.Unlock()
	removed, err := c.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		if err := c.refreshLocked(ctx); err != nil {
			c.mu.Lock()
			kept := make([]models.ClosingRecord, 0, len(c.history))
			for _, r := range c.history {
				if r.ID != id {
					kept = append(kept, r)
				}
			}
			c.history = kept
			c.mu.Unlock()
		}
		c.log.Info("kapanış silindi", slog.String("id", id))
	}
	return removed, nil
}

// Find store'dan okur; depolama hatası ErrNotFound'a dönüşmez.
func (c *Controller) Find(ctx context.Context, id string) (models.ClosingRecord, error) {
	records, err := c.store.Load(ctx)
	if err != nil {
		return models.ClosingRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return models.ClosingRecord{}, ErrNotFound
}

// Reexport kayıtlı bir kapanışın PDF'ini yeniden üretir; durum değişmez.
func (c *Controller) Reexport(ctx context.Context, id string) ([]byte, models.ClosingRecord, error) {
	rec, err := c.Find(ctx, id)
	if err != nil {
		return nil, rec, err
	}
	pdf, err := c.renderer.Render(ctx, rec)
	if err != nil {
		return nil, rec, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	return pdf, rec, nil
}

func (c *Controller) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	records, err := c.store.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records, from, to, c.opts.Location)
}

// Shutdown bekleyen kapanışları iptal eder ve goroutine'lerin bitmesini bekler.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.cancel()
	waited := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
