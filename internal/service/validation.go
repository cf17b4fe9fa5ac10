package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

// validationError converts validator failures into the field-keyed 400 body
// the API exposes.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidacion.Code, appErrors.ErrValidacion.Status, appErrors.ErrValidacion.Message)
	}
	fields := make(map[string][]string, len(verrs))
	for _, ve := range verrs {
		campo := strings.ToLower(ve.Field())
		fields[campo] = append(fields[campo], mensajeValidacion(ve))
	}
	return appErrors.WithFields(appErrors.Clone(appErrors.ErrValidacion, "Datos inválidos"), fields)
}

func mensajeValidacion(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "email":
		return "Debe ser un email válido"
	case "numeric":
		return "Debe contener solo dígitos"
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres", ve.Param())
	case "max":
		return fmt.Sprintf("Debe tener como máximo %s caracteres", ve.Param())
	case "oneof":
		return fmt.Sprintf("Debe ser uno de: %s", ve.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", ve.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", ve.Param())
	default:
		return "Valor inválido"
	}
}
