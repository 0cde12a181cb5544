package attachment_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/domain"
)

// Cabecera mínima de PNG: suficiente para la detección de tipo.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type failingReader struct{ read bool }

func (r *failingReader) Read(p []byte) (int, error) {
	r.read = true
	return 0, errors.New("no debería leerse")
}

func TestEncode_PNGComoDataURL(t *testing.T) {
	enc := attachment.NewProofEncoder(0)
	att, err := enc.Encode(context.Background(), attachment.Upload{
		Name: "proof.png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, "proof.png", att.Name)
	assert.Equal(t, "image/png", att.MIME)
	assert.Equal(t, int64(len(pngBytes)), att.Size)
	assert.True(t, strings.HasPrefix(att.Content, "data:image/png;base64,"))

	mime, payload, err := attachment.Decode(att.Content)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngBytes, payload)
}

func TestEncode_RechazaAntesDeLeerSiExcedeElLimite(t *testing.T) {
	enc := attachment.NewProofEncoder(1024)
	body := &failingReader{}
	_, err := enc.Encode(context.Background(), attachment.Upload{Name: "big.png", Size: 1025, Body: body})
	require.ErrorIs(t, err, domain.ErrAttachmentTooLarge)
	assert.False(t, body.read, "no debe empezar la conversión")
}

func TestEncode_TamanoDeclaradoFalso(t *testing.T) {
	enc := attachment.NewEncoder(8)
	_, err := enc.Encode(context.Background(), attachment.Upload{
		Name: "x.bin", Size: 4, Body: io.LimitReader(strings.NewReader(strings.Repeat("a", 64)), 64),
	})
	require.ErrorIs(t, err, domain.ErrAttachmentTooLarge)
}

func TestEncode_TipoNoPermitido(t *testing.T) {
	enc := attachment.NewProofEncoder(0)
	_, err := enc.Encode(context.Background(), attachment.Upload{
		Name: "notes.txt", Size: 5, Body: strings.NewReader("hola\n"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEncode_SinCuerpoEsValidationError(t *testing.T) {
	enc := attachment.NewProofEncoder(0)
	_, err := enc.Encode(context.Background(), attachment.Upload{Name: "x"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"transferProof"}, verr.Fields)
}

func TestDecode_Invalido(t *testing.T) {
	_, _, err := attachment.Decode("http://example.com/a.png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = attachment.Decode("data:image/png,raw")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
