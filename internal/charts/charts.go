// Package charts builds renderer-agnostic chart specifications from
// aggregation results. The browser-side chart engine consumes them as-is.
package charts

import "coffee-connect/internal/models"

type Type string

const (
	TypeBar  Type = "bar"
	TypeLine Type = "line"
	TypePie  Type = "pie"
)

// Spec is a labeled series plus how to draw it. Values are float64 because
// the chart engine has no decimal type; exact arithmetic stays on the
// aggregation side.
type Spec struct {
	Type   Type      `json:"type"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func Bar(title string, groups []models.GroupRevenue) Spec {
	return fromGroups(TypeBar, title, groups)
}

func Line(title string, groups []models.GroupRevenue) Spec {
	return fromGroups(TypeLine, title, groups)
}

func Pie(title string, groups []models.GroupRevenue) Spec {
	return fromGroups(TypePie, title, groups)
}

func fromGroups(t Type, title string, groups []models.GroupRevenue) Spec {
	spec := Spec{
		Type:   t,
		Title:  title,
		Labels: make([]string, 0, len(groups)),
		Values: make([]float64, 0, len(groups)),
	}
	for _, g := range groups {
		spec.Labels = append(spec.Labels, g.Label)
		spec.Values = append(spec.Values, g.Revenue.InexactFloat64())
	}
	return spec
}

// Empty reports whether the spec has nothing to draw.
func (s Spec) Empty() bool {
	return len(s.Labels) == 0
}
