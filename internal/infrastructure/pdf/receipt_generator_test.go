package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/receipt"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
	"github.com/jhoicas/Hotel-api/internal/infrastructure/pdf"
)

func TestReceiptGenerator_GeneraPDF(t *testing.T) {
	completed := time.Date(2026, 12, 25, 11, 0, 0, 0, time.UTC)
	doc := receipt.Document{
		HotelName: "Grand Azure",
		Booking: &entity.Booking{
			ID:          "b-1",
			Room:        entity.RoomSnapshot{ID: "r1", Name: "Gold Tier Room", Category: entity.CategoryGoldTier, Price: 14504},
			Action:      entity.ActionReserve,
			CheckInDate: "2026-12-24",
			CheckInTime: "14:30",
			Subtotal:    14504,
			Tax:         1740,
			Total:       16244,
			TaxRate:     decimal.RequireFromString("0.12"),
			OriginBank:  "GCash",
			SenderName:  "Ana Reyes",
			TransferProof: entity.Attachment{
				Name: "proof.png", Size: 2048, MIME: "image/png", Content: "data:image/png;base64,AAAA",
			},
			Status:      entity.BookingStatusCompleted,
			CreatedAt:   time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC),
			CompletedAt: &completed,
		},
		IssuedAt: time.Now(),
	}

	out, err := pdf.NewReceiptGenerator().Generate(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestReceiptGenerator_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewReceiptGenerator().Generate(ctx, receipt.Document{Booking: &entity.Booking{ID: "b-1"}})
	assert.ErrorIs(t, err, context.Canceled)
}
