package closing

import (
	"testing"
	"time"

	"caixa-backend/internal/calculator"
	"caixa-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedAt(id string, t time.Time, a calculator.Amounts) models.ClosingRecord {
	return models.NewClosingRecord(id, t.UnixMilli(), t.Format("02/01/2006"), a)
}

func TestSummarize(t *testing.T) {
	records := []models.ClosingRecord{
		closedAt("A", time.Date(2025, 12, 1, 23, 0, 0, 0, brt), calculator.Amounts{Dinheiro: 100, Loja: 20}),
		closedAt("B", time.Date(2025, 12, 2, 21, 0, 0, 0, brt), calculator.Amounts{Maquina1: 50, Felipe: 80}),
		closedAt("C", time.Date(2025, 12, 2, 23, 59, 0, 0, brt), calculator.Amounts{Dinheiro: 10}),
		closedAt("D", time.Date(2025, 12, 5, 12, 0, 0, 0, brt), calculator.Amounts{Dinheiro: 999}),
	}

	from := time.Date(2025, 12, 1, 0, 0, 0, 0, brt)
	to := time.Date(2025, 12, 3, 0, 0, 0, 0, brt)
	sum, err := Summarize(records, from, to, brt)
	require.NoError(t, err)

	assert.Equal(t, "2025-12-01", sum.From)
	assert.Equal(t, "2025-12-03", sum.To)
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 160.0, sum.TotalInflow)
	assert.Equal(t, 100.0, sum.TotalOutflow)
	assert.Equal(t, 60.0, sum.Balance)

	require.Len(t, sum.DailyBreakdown, 3)
	assert.Equal(t, DaySummary{Date: "2025-12-01", Count: 1, Inflow: 100, Outflow: 20, Balance: 80}, sum.DailyBreakdown[0])
	assert.Equal(t, DaySummary{Date: "2025-12-02", Count: 2, Inflow: 60, Outflow: 80, Balance: -20}, sum.DailyBreakdown[1])
	assert.Equal(t, DaySummary{Date: "2025-12-03"}, sum.DailyBreakdown[2])
}

func TestSummarize_InvalidRange(t *testing.T) {
	from := time.Date(2025, 12, 3, 0, 0, 0, 0, brt)
	_, err := Summarize(nil, from, from.AddDate(0, 0, -1), brt)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Summarize(nil, from, from.AddDate(2, 0, 0), brt)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
