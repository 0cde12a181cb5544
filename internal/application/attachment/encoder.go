// Package attachment convierte un archivo subido en un adjunto embebible (data URL).
package attachment

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jhoicas/Hotel-api/internal/domain"
	"github.com/jhoicas/Hotel-api/internal/domain/entity"
)

// DefaultMaxBytes límite del comprobante: 10 MiB.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// Upload archivo recibido del cliente. Size es el tamaño declarado; Body se lee solo si pasa el límite.
type Upload struct {
	Name         string
	Size         int64
	DeclaredMIME string
	Body         io.Reader
}

// Encoder valida tamaño y tipo y produce el entity.Attachment.
type Encoder struct {
	maxBytes int64
	allowed  []string // prefijos MIME aceptados; vacío acepta todo
}

// NewEncoder construye el codificador. maxBytes <= 0 usa DefaultMaxBytes.
func NewEncoder(maxBytes int64, allowed ...string) *Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Encoder{maxBytes: maxBytes, allowed: allowed}
}

// NewProofEncoder acepta imágenes y PDF, como el formulario de comprobante.
func NewProofEncoder(maxBytes int64) *Encoder {
	return NewEncoder(maxBytes, "image/", "application/pdf")
}

// NewImageEncoder solo imágenes (foto de la habitación).
func NewImageEncoder(maxBytes int64) *Encoder {
	return NewEncoder(maxBytes, "image/")
}

// MaxBytes límite configurado.
func (e *Encoder) MaxBytes() int64 { return e.maxBytes }

// CheckSize rechaza archivos que superan el límite antes de leer su contenido.
func (e *Encoder) CheckSize(size int64) error {
	if size > e.maxBytes {
		return fmt.Errorf("%w: %d bytes (máximo %d)", domain.ErrAttachmentTooLarge, size, e.maxBytes)
	}
	return nil
}

// Encode lee el archivo completo, detecta su tipo y lo codifica como data URL.
func (e *Encoder) Encode(ctx context.Context, up Upload) (entity.Attachment, error) {
	if err := e.CheckSize(up.Size); err != nil {
		return entity.Attachment{}, err
	}
	if up.Body == nil {
		return entity.Attachment{}, domain.NewValidationError("transferProof")
	}
	if err := ctx.Err(); err != nil {
		return entity.Attachment{}, err
	}

	// El tamaño declarado puede mentir: se lee como máximo un byte más del límite.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(up.Body, e.maxBytes+1))
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("leer adjunto: %w", err)
	}
	if err := e.CheckSize(n); err != nil {
		return entity.Attachment{}, err
	}
	if n == 0 {
		return entity.Attachment{}, domain.NewValidationError("transferProof")
	}

	mime := mimetype.Detect(buf.Bytes()).String()
	if base, _, found := strings.Cut(mime, ";"); found {
		mime = base
	}
	if mime == "application/octet-stream" && up.DeclaredMIME != "" {
		mime = up.DeclaredMIME
	}
	if !e.accepts(mime) {
		return entity.Attachment{}, fmt.Errorf("%w: tipo %s no permitido", domain.ErrInvalidInput, mime)
	}

	return entity.Attachment{
		Name:    up.Name,
		Size:    n,
		MIME:    mime,
		Content: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func (e *Encoder) accepts(mime string) bool {
	if len(e.allowed) == 0 {
		return true
	}
	for _, prefix := range e.allowed {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

// Decode separa un data URL en tipo MIME y bytes. Lo usa la descarga del comprobante en la consola.
func Decode(dataURL string) (mime string, payload []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: no es un data URL", domain.ErrInvalidInput)
	}
	header, encoded, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("%w: data URL sin base64", domain.ErrInvalidInput)
	}
	payload, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("%w: base64 inválido", domain.ErrInvalidInput)
	}
	return strings.TrimSuffix(header, ";base64"), payload, nil
}
