// Package eligibility decide si el pago contra entrega está permitido para una dirección.
package eligibility

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Policy indica dónde se ofrece pago contra entrega. Departments son grafías
// equivalentes de una misma región porque los datos de referencia no son
// consistentes. Label es el nombre de la región en los textos al usuario.
type Policy struct {
	Enabled     bool
	Departments []string
	City        string
	Label       string
}

// DefaultPolicy limita el pago contra entrega a Bogotá.
func DefaultPolicy() Policy {
	return Policy{
		Enabled: true,
		Departments: []string{
			"Bogotá",
			"Bogotá D.C.",
			"Bogotá, Distrito Capital",
			"Distrito Capital",
			"Distrito Capital de Bogotá",
			"Santafé de Bogotá",
			"Santa Fe de Bogotá",
		},
		City:  "Bogotá",
		Label: "Bogotá",
	}
}

type Rule struct {
	enabled     bool
	departments map[string]struct{}
	city        string
	label       string
}

func NewRule(p Policy) *Rule {
	r := &Rule{
		enabled:     p.Enabled,
		departments: make(map[string]struct{}, len(p.Departments)),
		city:        Normalize(p.City),
		label:       labelFor(p),
	}
	for _, d := range p.Departments {
		if n := Normalize(d); n != "" {
			r.departments[n] = struct{}{}
		}
	}
	return r
}

// Enabled indica si el pago contra entrega se ofrece en algún lugar.
func (r *Rule) Enabled() bool {
	return r != nil && r.enabled
}

// Label devuelve el nombre visible de la región habilitada.
func (r *Rule) Label() string {
	if r == nil || r.label == "" {
		return defaultLabel
	}
	return r.label
}

const defaultLabel = "Bogotá"

func labelFor(p Policy) string {
	if l := strings.TrimSpace(p.Label); l != "" {
		return l
	}
	return strings.TrimSpace(p.City)
}

// IsAllowed es true solo si el departamento es una de las grafías permitidas o
// la ciudad es la habilitada. Con ambos vacíos nunca se permite.
func (r *Rule) IsAllowed(department, city string) bool {
	if !r.Enabled() {
		return false
	}
	d := Normalize(department)
	c := Normalize(city)
	if d == "" && c == "" {
		return false
	}
	if d != "" {
		if _, ok := r.departments[d]; ok {
			return true
		}
	}
	return c != "" && c == r.city
}

// Normalize pasa a minúsculas, quita tildes y puntuación y colapsa espacios:
// "Bogotá, D.C." y "bogota dc" quedan iguales.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(stripped)
	stripped = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, stripped)
	return strings.Join(strings.Fields(stripped), " ")
}
