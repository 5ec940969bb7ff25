package closing

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"caixa-backend/internal/calculator"
	"caixa-backend/internal/currency"
	"caixa-backend/internal/ledger"
	"caixa-backend/internal/models"
	"caixa-backend/internal/report"

	"github.com/gofiber/fiber/v2"
)

type FormattedTotals struct {
	Inflow  string `json:"total_inflow"`
	Outflow string `json:"total_outflow"`
	Balance string `json:"balance"`
}

type DraftResponse struct {
	DraftView
	Formatted FormattedTotals `json:"formatted"`
}

type ClosingResponse struct {
	models.ClosingRecord
	Formatted FormattedTotals `json:"formatted"`
}

type SubmitResponse struct {
	State   State    `json:"state"`
	Outcome *Outcome `json:"outcome,omitempty"`
}

func formatTotals(t calculator.Totals) FormattedTotals {
	return FormattedTotals{
		Inflow:  currency.Format(t.Inflow),
		Outflow: currency.Format(t.Outflow),
		Balance: currency.Format(t.Balance),
	}
}

func draftResponse(v DraftView) DraftResponse {
	return DraftResponse{DraftView: v, Formatted: formatTotals(v.Totals)}
}

// Yardımcı: controller/store hatalarını HTTP hatasına çevir
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNothingToClose):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Por favor, insira valores para realizar o fechamento.")
	case errors.Is(err, ErrBusy):
		return fiber.NewError(fiber.StatusConflict, "Fechamento em andamento, aguarde.")
	case errors.Is(err, ErrConfirmationRequired):
		return fiber.NewError(fiber.StatusPreconditionRequired, "Deseja excluir este registro de fechamento? Repita com confirm=true.")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Registro de fechamento não encontrado.")
	case errors.Is(err, ErrInvalidRange):
		return fiber.NewError(fiber.StatusBadRequest, "Intervalo de datas inválido (máximo 366 dias).")
	case errors.Is(err, calculator.ErrUnknownField):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrUnavailable), errors.Is(err, ledger.ErrUnreadable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Armazenamento indisponível, tente novamente.")
	case errors.Is(err, report.ErrExportFailed):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Não foi possível gerar o PDF, tente novamente.")
	}
	return err
}

// parseFields gövdeyi alan -> metin haritasına çevirir. Sayılar metne
// dönüşür, null boş olur; diğer tipler parse edilemez sayılır (0).
func parseFields(c *fiber.Ctx) (map[string]string, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	fields := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
			fields[k] = ""
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields, nil
}

// -------------------------------------------------
// GET /api/draft
// -------------------------------------------------
func GetDraftHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(draftResponse(ctrl.Draft()))
	}
}

// -------------------------------------------------
// PUT /api/draft  {"dinheiro":"100","loja":"20"}
// -------------------------------------------------
func UpdateDraftHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := parseFields(c)
		if err != nil {
			return err
		}
		view, err := ctrl.UpdateDraft(fields)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(draftResponse(view))
	}
}

// -------------------------------------------------
// DELETE /api/draft
// -------------------------------------------------
func ClearDraftHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ctrl.ClearDraft(); err != nil {
			return toHTTPError(err)
		}
		return c.JSON(draftResponse(ctrl.Draft()))
	}
}

// -------------------------------------------------
// POST /api/calculate - draft'a dokunmaz
// -------------------------------------------------
func CalculateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := parseFields(c)
		if err != nil {
			return err
		}
		var d calculator.Draft
		if err := d.Merge(fields); err != nil {
			return toHTTPError(err)
		}
		a, t := calculator.Calculate(d)
		return c.JSON(draftResponse(DraftView{State: StateEditing, Fields: d, Amounts: a, Totals: t}))
	}
}

// -------------------------------------------------
// POST /api/closings[?wait=true]
// Gövde verilirse önce draft'a eklenir.
// -------------------------------------------------
func SubmitClosingHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := parseFields(c)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if _, err := ctrl.UpdateDraft(fields); err != nil {
				return toHTTPError(err)
			}
		}

		done, err := ctrl.Submit()
		if err != nil {
			return toHTTPError(err)
		}

		if !c.QueryBool("wait") {
			return c.Status(fiber.StatusAccepted).JSON(SubmitResponse{State: StateClosing})
		}

		out := <-done
		status := fiber.StatusCreated
		if !out.Saved() {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(SubmitResponse{State: ctrl.State(), Outcome: &out})
	}
}

// -------------------------------------------------
// GET /api/closings/outcome
// -------------------------------------------------
func LastOutcomeHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, ok := ctrl.LastOutcome()
		if !ok {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(SubmitResponse{State: ctrl.State(), Outcome: &out})
	}
}

// -------------------------------------------------
// GET /api/closings - en yeni başta
// -------------------------------------------------
func ListClosingsHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		history := ctrl.History()
		resp := make([]ClosingResponse, 0, len(history))
		for _, r := range history {
			resp = append(resp, ClosingResponse{ClosingRecord: r, Formatted: formatTotals(r.Totals())})
		}
		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/closings/summary?from=2025-12-01&to=2025-12-31
// -------------------------------------------------
func SummaryHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from e to são obrigatórios (AAAA-MM-DD)")
		}
		loc := ctrl.Location()
		from, err := time.ParseInLocation("2006-01-02", fromStr, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "data 'from' inválida")
		}
		to, err := time.ParseInLocation("2006-01-02", toStr, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "data 'to' inválida")
		}

		sum, err := ctrl.Summary(c.UserContext(), from, to)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(sum)
	}
}

// -------------------------------------------------
// GET /api/closings/:id/pdf
// -------------------------------------------------
func ExportClosingHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pdf, rec, err := ctrl.Reexport(c.UserContext(), c.Params("id"))
		if err != nil {
			return toHTTPError(err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, report.Filename(rec, ctrl.Location())))
		return c.Send(pdf)
	}
}

// -------------------------------------------------
// DELETE /api/closings/:id?confirm=true
// -------------------------------------------------
func DeleteClosingHandler(ctrl *Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := ctrl.Delete(c.UserContext(), c.Params("id"), c.QueryBool("confirm")); err != nil {
			return toHTTPError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
