package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field: form alanının JSON adı
type Field string

const (
	// Entradas
	FieldDinheiro     Field = "dinheiro"
	FieldMaquina1     Field = "maquina1"
	FieldMaquina2     Field = "maquina2"
	FieldSaidaEntrada Field = "saidaEntrada"

	// Saídas (despesas / pessoal)
	FieldFelipe   Field = "felipe"
	FieldNinha    Field = "ninha"
	FieldRenan    Field = "renan"
	FieldTecnicos Field = "tecnicos"
	FieldLoja     Field = "loja"
)

var (
	InflowFields  = []Field{FieldDinheiro, FieldMaquina1, FieldMaquina2, FieldSaidaEntrada}
	OutflowFields = []Field{FieldFelipe, FieldNinha, FieldRenan, FieldTecnicos, FieldLoja}
)

var ErrUnknownField = errors.New("campo desconhecido")

// AllFields - önce girişler, sonra çıkışlar (form sırası)
func AllFields() []Field {
	out := make([]Field, 0, len(InflowFields)+len(OutflowFields))
	out = append(out, InflowFields...)
	return append(out, OutflowFields...)
}

// Draft: formdaki ham metinler, kullanıcının yazdığı gibi
type Draft struct {
	Dinheiro     string `json:"dinheiro"`
	Maquina1     string `json:"maquina1"`
	Maquina2     string `json:"maquina2"`
	SaidaEntrada string `json:"saidaEntrada"`
	Felipe       string `json:"felipe"`
	Ninha        string `json:"ninha"`
	Renan        string `json:"renan"`
	Tecnicos     string `json:"tecnicos"`
	Loja         string `json:"loja"`
}

func (d *Draft) ref(f Field) *string {
	switch f {
	case FieldDinheiro:
		return &d.Dinheiro
	case FieldMaquina1:
		return &d.Maquina1
	case FieldMaquina2:
		return &d.Maquina2
	case FieldSaidaEntrada:
		return &d.SaidaEntrada
	case FieldFelipe:
		return &d.Felipe
	case FieldNinha:
		return &d.Ninha
	case FieldRenan:
		return &d.Renan
	case FieldTecnicos:
		return &d.Tecnicos
	case FieldLoja:
		return &d.Loja
	}
	return nil
}

func (d *Draft) Set(f Field, value string) error {
	p := d.ref(f)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	*p = value
	return nil
}

// Bilinmeyen alan boş döner
func (d Draft) Get(f Field) string {
	if p := d.ref(f); p != nil {
		return *p
	}
	return ""
}

// Merge - bilinmeyen bir alan varsa draft hiç değişmez
func (d *Draft) Merge(values map[string]string) error {
	next := *d
	for k, v := range values {
		if err := next.Set(Field(k), v); err != nil {
			return err
		}
	}
	*d = next
	return nil
}

// Amounts: parse edilmiş tutarlar (boş/hatalı alan = 0)
type Amounts struct {
	Dinheiro     float64 `json:"dinheiro"`
	Maquina1     float64 `json:"maquina1"`
	Maquina2     float64 `json:"maquina2"`
	SaidaEntrada float64 `json:"saidaEntrada"`
	Felipe       float64 `json:"felipe"`
	Ninha        float64 `json:"ninha"`
	Renan        float64 `json:"renan"`
	Tecnicos     float64 `json:"tecnicos"`
	Loja         float64 `json:"loja"`
}

func (a Amounts) Inflows() []float64 {
	return []float64{a.Dinheiro, a.Maquina1, a.Maquina2, a.SaidaEntrada}
}

func (a Amounts) Outflows() []float64 {
	return []float64{a.Felipe, a.Ninha, a.Renan, a.Tecnicos, a.Loja}
}

// Hiç tutar girilmemiş mi?
func (a Amounts) IsZero() bool {
	for _, v := range append(a.Inflows(), a.Outflows()...) {
		if v != 0 {
			return false
		}
	}
	return true
}

type Totals struct {
	Inflow  float64 `json:"total_inflow"`
	Outflow float64 `json:"total_outflow"`
	Balance float64 `json:"balance"`
}

// ParseAmount asla hata dönmez: boş, bozuk veya sonsuz değerler 0 olur.
// Nokta yoksa virgül ondalık ayırıcı kabul edilir ("12,50" -> 12.5).
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func Parse(d Draft) Amounts {
	return Amounts{
		Dinheiro:     ParseAmount(d.Dinheiro),
		Maquina1:     ParseAmount(d.Maquina1),
		Maquina2:     ParseAmount(d.Maquina2),
		SaidaEntrada: ParseAmount(d.SaidaEntrada),
		Felipe:       ParseAmount(d.Felipe),
		Ninha:        ParseAmount(d.Ninha),
		Renan:        ParseAmount(d.Renan),
		Tecnicos:     ParseAmount(d.Tecnicos),
		Loja:         ParseAmount(d.Loja),
	}
}

func Sum(a Amounts) Totals {
	var t Totals
	for _, v := range a.Inflows() {
		t.Inflow += v
	}
	for _, v := range a.Outflows() {
		t.Outflow += v
	}
	t.Balance = t.Inflow - t.Outflow
	return t
}

// Calculate - formdaki canlı toplamlar
func Calculate(d Draft) (Amounts, Totals) {
	a := Parse(d)
	return a, Sum(a)
}
