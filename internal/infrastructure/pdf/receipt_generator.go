// Package pdf genera el comprobante de reserva en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hotel                │  N° Reserva + Emisión       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HUÉSPED: Nombre + email                                     │
//	│  ESTADÍA: Habitación / Categoría / Check-in / Acción         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGO: Banco de origen + Remitente + Comprobante             │
//	│  TOTALES: Subtotal / Impuesto / TOTAL                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID de la reserva + estado                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Hotel-api/internal/application/dto"
	"github.com/jhoicas/Hotel-api/internal/application/receipt"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 122, Green: 92, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ receipt.Generator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa receipt.Generator con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(ctx context.Context, doc receipt.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := doc.Booking
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de reserva", true).
		WithAuthor(doc.HotelName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(guestRow(doc.Guest))
	m.AddRows(stayRow(b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(paymentRow(b))
	m.AddRows(totalsRow(b))
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(b))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc receipt.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.HotelName, "Hotel"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de reserva", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RESERVA N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Booking.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 6,
			}),
			text.New("Emitido: "+doc.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func guestRow(guest *entity.User) core.Row {
	name, email := "Usuario eliminado", "N/A"
	if guest != nil {
		name, email = nonEmpty(guest.DisplayName, "N/A"), guest.Email
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("HUÉSPED", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New("Email: "+email, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func stayRow(b *entity.Booking) core.Row {
	action := "Estadía inmediata"
	if b.Action == entity.ActionReserve {
		action = "Reserva a futuro"
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("HABITACIÓN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(b.Room.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(string(b.Room.Category), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("CHECK-IN", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(b.CheckInDate+"  "+dto.FormatTime12Hour(b.CheckInTime), props.Text{Size: 10, Align: align.Right, Top: 6}),
			text.New(action, props.Text{Size: 8, Align: align.Right, Top: 11, Color: colorGray}),
		),
	)
}

func paymentRow(b *entity.Booking) core.Row {
	proof := "Sin comprobante"
	if b.TransferProof.Name != "" {
		proof = fmt.Sprintf("%s (%s, %s bytes)", b.TransferProof.Name, b.TransferProof.MIME, formatMoney(strconv.FormatInt(b.TransferProof.Size, 10)))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PAGO POR TRANSFERENCIA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Banco de origen: %s   |   Remitente: %s",
				nonEmpty(b.OriginBank, "N/A"),
				nonEmpty(b.SenderName, "N/A"),
			), props.Text{Size: 8, Top: 6}),
			text.New("Comprobante: "+proof, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func totalsRow(b *entity.Booking) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1})
	}
	rate := "12"
	if !b.TaxRate.IsZero() {
		rate = b.TaxRate.Shift(2).String()
	}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			label("Impuesto ("+rate+"%):"),
			label("TOTAL:"),
		),
		col.New(3).Add(
			value(money(b.Subtotal)),
			value(money(b.Tax)),
			grand(money(b.Total)),
		),
	)
}

func footerRow(b *entity.Booking) core.Row {
	status := "Reservada"
	if b.Status == entity.BookingStatusCompleted && b.CompletedAt != nil {
		status = "Completada el " + b.CompletedAt.Format("02/01/2006 15:04")
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(b.ID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Estado: "+status, props.Text{Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary}),
			text.New("Creada: "+b.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray}),
			text.New("Presente este comprobante en recepción junto con un documento de identidad.", props.Text{
				Size: 7, Top: 22, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func money(v int64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return sign + "PHP " + formatMoney(strconv.FormatInt(v, 10))
}

// formatMoney inserta comas de miles en un string numérico sin decimales.
// Ej: "16244" → "16,244"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
