package models

import "caixa-backend/internal/calculator"

// ClosingRecord - kesinleşmiş bir günlük kasa kapanışı. Oluşturulduktan sonra
// değişmez, sadece silinebilir. JSON alan adları eski tarayıcı kayıtlarıyla aynı.
type ClosingRecord struct {
	ID          string `json:"id"`
	CreatedAt   int64  `json:"timestamp"` // epoch ms
	DisplayDate string `json:"date"`      // dd/mm/yyyy (pt-BR)

	// Entradas
	Dinheiro     float64 `json:"dinheiro"`
	Maquina1     float64 `json:"maquina1"`
	Maquina2     float64 `json:"maquina2"`
	SaidaEntrada float64 `json:"saidaEntrada"`

	// Saídas
	Felipe   float64 `json:"felipe"`
	Ninha    float64 `json:"ninha"`
	Renan    float64 `json:"renan"`
	Tecnicos float64 `json:"tecnicos"`
	Loja     float64 `json:"loja"`

	// Oluşturma anında donmuş toplamlar
	TotalInflow  float64 `json:"totalEntradas"`
	TotalOutflow float64 `json:"totalSaidas"`
	Balance      float64 `json:"resultado"`
}

func NewClosingRecord(id string, createdAt int64, displayDate string, a calculator.Amounts) ClosingRecord {
	t := calculator.Sum(a)
	return ClosingRecord{
		ID:           id,
		CreatedAt:    createdAt,
		DisplayDate:  displayDate,
		Dinheiro:     a.Dinheiro,
		Maquina1:     a.Maquina1,
		Maquina2:     a.Maquina2,
		SaidaEntrada: a.SaidaEntrada,
		Felipe:       a.Felipe,
		Ninha:        a.Ninha,
		Renan:        a.Renan,
		Tecnicos:     a.Tecnicos,
		Loja:         a.Loja,
		TotalInflow:  t.Inflow,
		TotalOutflow: t.Outflow,
		Balance:      t.Balance,
	}
}

func (r ClosingRecord) Amounts() calculator.Amounts {
	return calculator.Amounts{
		Dinheiro:     r.Dinheiro,
		Maquina1:     r.Maquina1,
		Maquina2:     r.Maquina2,
		SaidaEntrada: r.SaidaEntrada,
		Felipe:       r.Felipe,
		Ninha:        r.Ninha,
		Renan:        r.Renan,
		Tecnicos:     r.Tecnicos,
		Loja:         r.Loja,
	}
}

func (r ClosingRecord) Totals() calculator.Totals {
	return calculator.Totals{Inflow: r.TotalInflow, Outflow: r.TotalOutflow, Balance: r.Balance}
}
