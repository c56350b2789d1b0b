package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Nombres de campo según el tag json/query para los mensajes.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// decimal.Decimal se valida como float64 (gt, gte, lte).
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// uuidParams responde 404 si un parámetro de ruta no es un UUID: ningún recurso tiene otro id.
func uuidParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			if uuid.Validate(c.Params(name)) != nil {
				return respondError(c, domain.ErrNotFound)
			}
		}
		return c.Next()
	}
}

// parseBody decodifica el JSON y valida. Si falla, escribe el 400 y devuelve false.
func parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = badRequest(c, "INVALID_BODY", "cuerpo inválido")
		return false
	}
	return validateStruct(c, out)
}

// parseQuery decodifica los query params y valida.
func parseQuery(c *fiber.Ctx, out any) bool {
	if err := c.QueryParser(out); err != nil {
		_ = badRequest(c, "INVALID_QUERY", "parámetros inválidos")
		return false
	}
	return validateStruct(c, out)
}

func validateStruct(c *fiber.Ctx, out any) bool {
	err := validate.Struct(out)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		_ = badRequest(c, "VALIDATION", err.Error())
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	_ = c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Fields:  fields,
	})
	return false
}

// fieldPath quita el nombre del struct raíz: "CreateOrderRequest.items[0].quantity" → "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min", "gte":
		return "debe ser >= " + fe.Param()
	case "max", "lte":
		return "debe ser <= " + fe.Param()
	case "gt":
		return "debe ser > " + fe.Param()
	case "datetime":
		return "formato de fecha esperado: " + fe.Param()
	case "uuid":
		return "debe ser un UUID válido"
	}
	return "no cumple la regla " + fe.Tag()
}
