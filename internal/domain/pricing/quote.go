package pricing

import "github.com/shopspring/decimal"

// DefaultTaxRate tasa de impuesto sobre el subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.12")

// Quote desglose financiero de una reserva, en unidades menores.
type Quote struct {
	Subtotal int64
	Tax      int64
	Total    int64
	Rate     decimal.Decimal
}

// Calculator servicio de dominio que deriva impuesto y total del precio de la habitación.
// Tax = round(Subtotal * Rate) redondeando la mitad hacia arriba; Total = Subtotal + Tax.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator construye la calculadora. Una tasa cero o negativa usa DefaultTaxRate.
func NewCalculator(rate decimal.Decimal) Calculator {
	if rate.LessThanOrEqual(decimal.Zero) {
		rate = DefaultTaxRate
	}
	return Calculator{rate: rate}
}

// Rate tasa aplicada.
func (c Calculator) Rate() decimal.Decimal {
	if c.rate.IsZero() {
		return DefaultTaxRate
	}
	return c.rate
}

// Quote calcula el desglose para un subtotal no negativo.
func (c Calculator) Quote(subtotal int64) Quote {
	rate := c.Rate()
	// Round(0) redondea la mitad alejándose de cero; con subtotal >= 0 equivale a half-up.
	tax := decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
		Rate:     rate,
	}
}
