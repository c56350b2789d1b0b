package entity

import "github.com/shopspring/decimal"

// MoneyScale decimales de montos y tasas; coincide con NUMERIC(12,2) y NUMERIC(5,2).
const MoneyScale = 2

// maxMoney cota exclusiva de NUMERIC(12,2).
var maxMoney = decimal.New(1, 10)

// ValidMoney indica si d es un monto persistible sin redondeo: no negativo,
// a lo sumo dos decimales ("138.000" vale, "137.995" no) y menor que 10^10.
func ValidMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Truncate(MoneyScale)) && d.LessThan(maxMoney)
}
