// Package validator revisa los datos del formulario de checkout antes de crear la orden.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"storefront-checkout/internal/model"
)

type Field string

const (
	FieldFullName      Field = "fullName"
	FieldEmail         Field = "email"
	FieldPhone         Field = "phone"
	FieldStreetAddress Field = "streetAddress"
	FieldCity          Field = "city"
	FieldDepartment    Field = "department"
	FieldPaymentMethod Field = "paymentMethod"
	FieldItems         Field = "items"
)

// fieldOrder fija la prioridad usada para elegir el "primer" error (foco en el formulario).
var fieldOrder = []Field{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldStreetAddress,
	FieldCity,
	FieldDepartment,
	FieldPaymentMethod,
	FieldItems,
}

// CODDisabledMessage es el rechazo de contra entrega con la región por defecto.
var CODDisabledMessage = CODDisabledMessageFor("")

// CODDisabledMessageFor arma el rechazo de contra entrega para la región indicada.
// Sin región se nombra Bogotá.
func CODDisabledMessageFor(region string) string {
	if strings.TrimSpace(region) == "" {
		region = defaultCODRegion
	}
	return fmt.Sprintf("El pago contra entrega solo está disponible en %s.", region)
}

const defaultCODRegion = "Bogotá"

var messages = map[Field]string{
	FieldFullName:      "Ingresa tu nombre completo (solo letras y espacios).",
	FieldEmail:         "Ingresa un correo electrónico válido.",
	FieldPhone:         "Ingresa un celular válido: +57 seguido de 10 dígitos que empiecen por 3.",
	FieldStreetAddress: "La dirección debe tener al menos 5 caracteres.",
	FieldCity:          "Selecciona una ciudad.",
	FieldDepartment:    "Selecciona un departamento.",
	FieldPaymentMethod: "Selecciona un método de pago.",
	FieldItems:         "Tu carrito está vacío.",
}

const unknownPaymentMessage = "Método de pago no válido."

var (
	fullNamePattern = regexp.MustCompile(`^[a-zA-ZÀ-ÖØ-öø-ÿ ]{2,}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits       = regexp.MustCompile(`\D`)
)

// FieldErrors asocia cada campo del formulario con el mensaje para el usuario.
type FieldErrors map[Field]string

// Fields devuelve los campos con error en orden de prioridad.
func (e FieldErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for _, f := range fieldOrder {
		if _, ok := e[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// First devuelve el campo con error de mayor prioridad.
func (e FieldErrors) First() (Field, string, bool) {
	for _, f := range fieldOrder {
		if msg, ok := e[f]; ok {
			return f, msg, true
		}
	}
	return "", "", false
}

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, string(f)+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Eligibility la implementa *eligibility.Rule. Label es el nombre de la región
// que se muestra al usuario.
type Eligibility interface {
	IsAllowed(department, city string) bool
	Label() string
}

type form struct {
	FullName      string           `field:"fullName" validate:"fullname"`
	Email         string           `field:"email" validate:"required,shopemail"`
	Phone         string           `field:"phone" validate:"cophone"`
	StreetAddress string           `field:"streetAddress" validate:"trimmedmin=5"`
	City          string           `field:"city" validate:"filled"`
	Department    string           `field:"department" validate:"filled"`
	PaymentMethod string           `field:"paymentMethod" validate:"required,paymentmethod"`
	Items         []model.CartItem `field:"items" validate:"min=1"`
}

type Validator struct {
	v    *validator.Validate
	rule Eligibility
}

func New(rule Eligibility) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("field")
	})
	// Las validaciones propias nunca fallan al registrarse: los nombres no son reservados.
	_ = v.RegisterValidation("fullname", validFullName)
	_ = v.RegisterValidation("shopemail", validEmail)
	_ = v.RegisterValidation("cophone", validPhone)
	_ = v.RegisterValidation("trimmedmin", validTrimmedMin)
	_ = v.RegisterValidation("filled", validFilled)
	_ = v.RegisterValidation("paymentmethod", validPaymentMethod)

	return &Validator{v: v, rule: rule}
}

// Validate junta todos los campos con error. Un resultado nil indica que el borrador es válido.
func (val *Validator) Validate(draft model.OrderDraft) FieldErrors {
	f := form{
		FullName:      draft.Customer.FullName,
		Email:         draft.Customer.Email,
		Phone:         draft.Customer.Phone,
		StreetAddress: draft.Address.Street,
		City:          draft.Address.City,
		Department:    draft.Address.Department,
		PaymentMethod: string(draft.PaymentMethod),
		Items:         draft.Items,
	}

	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if err := val.v.Struct(f); errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := Field(fe.Field())
			if field == FieldPaymentMethod && fe.Tag() == "paymentmethod" {
				errs[field] = unknownPaymentMessage
				continue
			}
			errs[field] = messages[field]
		}
	}

	if _, bad := errs[FieldPaymentMethod]; !bad && draft.PaymentMethod == model.PaymentCOD {
		if val.rule == nil {
			errs[FieldPaymentMethod] = CODDisabledMessage
		} else if !val.rule.IsAllowed(draft.Address.Department, draft.Address.City) {
			errs[FieldPaymentMethod] = CODDisabledMessageFor(val.rule.Label())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NormalizePhone deja solo los dígitos del teléfono.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

func validFullName(fl validator.FieldLevel) bool {
	return fullNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validPhone exige código de país 57 y celular que empieza por 3: 12 dígitos.
func validPhone(fl validator.FieldLevel) bool {
	digits := NormalizePhone(fl.Field().String())
	return len(digits) == 12 && strings.HasPrefix(digits, "573")
}

func validTrimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func validFilled(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validPaymentMethod(fl validator.FieldLevel) bool {
	return model.PaymentMethod(fl.Field().String()).IsKnown()
}
