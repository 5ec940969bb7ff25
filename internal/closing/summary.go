package closing

import (
	"errors"
	"time"

	"caixa-backend/internal/models"
)

const maxSummaryDays = 366

var ErrInvalidRange = errors.New("intervalo de datas inválido")

type DaySummary struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Inflow  float64 `json:"total_inflow"`
	Outflow float64 `json:"total_outflow"`
	Balance float64 `json:"balance"`
}

type Summary struct {
	From           string       `json:"from"`
	To             string       `json:"to"`
	Count          int          `json:"count"`
	TotalInflow    float64      `json:"total_inflow"`
	TotalOutflow   float64      `json:"total_outflow"`
	Balance        float64      `json:"balance"`
	DailyBreakdown []DaySummary `json:"daily_breakdown"`
}

// Summarize [from, to] aralığındaki (gün bazlı, loc saat diliminde) kapanışları toplar.
// Kapanışı olmayan günler de sıfır değerle listelenir.
func Summarize(records []models.ClosingRecord, from, to time.Time, loc *time.Location) (Summary, error) {
	if loc == nil {
		loc = time.Local
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	if to.Before(from) || to.Sub(from) > maxSummaryDays*24*time.Hour {
		return Summary{}, ErrInvalidRange
	}

	resp := Summary{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		resp.DailyBreakdown = append(resp.DailyBreakdown, DaySummary{Date: d.Format("2006-01-02")})
	}
	days := make(map[string]*DaySummary, len(resp.DailyBreakdown))
	for i := range resp.DailyBreakdown {
		days[resp.DailyBreakdown[i].Date] = &resp.DailyBreakdown[i]
	}

	for _, r := range records {
		key := time.UnixMilli(r.CreatedAt).In(loc).Format("2006-01-02")
		day, ok := days[key]
		if !ok {
			continue
		}
		day.Count++
		day.Inflow += r.TotalInflow
		day.Outflow += r.TotalOutflow
		day.Balance += r.Balance

		resp.Count++
		resp.TotalInflow += r.TotalInflow
		resp.TotalOutflow += r.TotalOutflow
		resp.Balance += r.Balance
	}
	return resp, nil
}
