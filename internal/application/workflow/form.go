package workflow

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Hotel-api/internal/application/attachment"
	"github.com/jhoicas/Hotel-api/internal/domain"
)

// InstructionForm datos del paso PaymentInstruction. Es el único esquema que valida la
// transición a Completed; los nombres de campo son los del formulario.
type InstructionForm struct {
	CheckInDate   string             `form:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckInTime   string             `form:"checkInTime" validate:"required,datetime=15:04"`
	OriginBank    string             `form:"originBank" validate:"required"`
	SenderName    string             `form:"senderName" validate:"required"`
	TransferProof *attachment.Upload `form:"transferProof" validate:"required"`
}

func (f *InstructionForm) normalize() {
	f.CheckInDate = strings.TrimSpace(f.CheckInDate)
	f.CheckInTime = strings.TrimSpace(f.CheckInTime)
	f.OriginBank = strings.TrimSpace(f.OriginBank)
	f.SenderName = strings.TrimSpace(f.SenderName)
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateForm devuelve *domain.ValidationError con todos los campos que fallan, en orden de declaración.
func validateForm(f InstructionForm) error {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	seen := map[string]bool{}
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		fields = append(fields, fe.Field())
	}
	return domain.NewValidationError(fields...)
}
