package report

import (
	"caixa-backend/internal/currency"
	"caixa-backend/internal/models"
)

type Line struct {
	Label  string
	Amount float64
}

func (l Line) Display() string { return currency.Format(l.Amount) }

// Sections - raporun içeriği, iki renderer da aynı sırayı kullanır.
type Sections struct {
	Inflows  []Line
	Outflows []Line
	Totals   []Line
}

func Lines(rec models.ClosingRecord) Sections {
	return Sections{
		Inflows: []Line{
			{"Dinheiro", rec.Dinheiro},
			{"Máquina 1", rec.Maquina1},
			{"Máquina 2", rec.Maquina2},
			{"Saída (Entrada)", rec.SaidaEntrada},
		},
		Outflows: []Line{
			{"Felipe", rec.Felipe},
			{"Ninha", rec.Ninha},
			{"Renan", rec.Renan},
			{"Técnicos", rec.Tecnicos},
			{"Loja", rec.Loja},
		},
		Totals: []Line{
			{"Total de Entradas", rec.TotalInflow},
			{"Total de Saídas", rec.TotalOutflow},
			{"Saldo Final", rec.Balance},
		},
	}
}
