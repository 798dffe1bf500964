package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Bogotá, D.C. ":  "bogota dc",
		"BOGOTÁ   D.C.":    "bogota dc",
		"Medellín":         "medellin",
		"Santafé de Bogotá": "santafe de bogota",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestRuleIsAllowed_DepartmentVariants(t *testing.T) {
	rule := NewRule(DefaultPolicy())

	for _, dept := range []string{
		"Bogotá", "bogota", "BOGOTA D.C.", "Bogotá D.C.", "bogota dc",
		"Bogotá, Distrito Capital", "distrito capital", "Santafé de Bogotá",
	} {
		assert.True(t, rule.IsAllowed(dept, ""), "department %q", dept)
	}
}

func TestRuleIsAllowed_CityOnly(t *testing.T) {
	rule := NewRule(DefaultPolicy())

	assert.True(t, rule.IsAllowed("", "Bogotá"))
	assert.True(t, rule.IsAllowed("Cundinamarca", " BOGOTA "))
}

func TestRuleIsAllowed_OutsideRegion(t *testing.T) {
	rule := NewRule(DefaultPolicy())

	pairs := [][2]string{
		{"Antioquia", "Medellín"},
		{"Cundinamarca", "Soacha"},
		{"Valle del Cauca", "Cali"},
		{"Atlántico", "Barranquilla"},
		{"", ""},
		{"   ", "  "},
	}
	for _, p := range pairs {
		assert.False(t, rule.IsAllowed(p[0], p[1]), "pair %v", p)
	}
}

func TestRuleIsAllowed_Disabled(t *testing.T) {
	p := DefaultPolicy()
	p.Enabled = false
	rule := NewRule(p)

	assert.False(t, rule.Enabled())
	assert.False(t, rule.IsAllowed("Bogotá", "Bogotá"))
}

func TestRuleIsAllowed_InjectedPolicies(t *testing.T) {
	bogota := NewRule(DefaultPolicy())
	medellin := NewRule(Policy{Enabled: true, Departments: []string{"Antioquia"}, City: "Medellín"})

	assert.True(t, bogota.IsAllowed("Bogotá", ""))
	assert.False(t, medellin.IsAllowed("Bogotá", ""))
	assert.True(t, medellin.IsAllowed("antioquia", ""))
	assert.True(t, medellin.IsAllowed("", "medellin"))
}

func TestNilRule(t *testing.T) {
	var rule *Rule
	assert.False(t, rule.IsAllowed("Bogotá", "Bogotá"))
}

func TestRuleLabel(t *testing.T) {
	assert.Equal(t, "Bogotá", NewRule(DefaultPolicy()).Label())
	assert.Equal(t, "Medellín", NewRule(Policy{Enabled: true, City: " Medellín "}).Label())
	assert.Equal(t, "el Valle de Aburrá", NewRule(Policy{Enabled: true, City: "Medellín", Label: "el Valle de Aburrá"}).Label())
	assert.Equal(t, "Bogotá", NewRule(Policy{Enabled: true}).Label())

	var rule *Rule
	assert.Equal(t, "Bogotá", rule.Label())
}
