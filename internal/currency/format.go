package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Code - uygulama tek bir para birimiyle çalışır.
const Code = "BRL"

// Cents - iki haneye yuvarlar (yarım sıfırdan uzağa), kuruş cinsinden döner.
func Cents(v float64) int64 {
	return decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
}

// Format: "R$1.234,56" / "-R$10,00". Sadece gösterim içindir, hesaplar float64 ile yapılır.
func Format(v float64) string {
	return money.New(Cents(v), Code).Display()
}

// Fixed - iki haneli düz metin ("150.00"), JSON cevapları için.
func Fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
