package delivery

import (
	_ "embed"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

var seedRows = mustParseSeed(seedYAML)

func mustParseSeed(raw []byte) []Delivery {
	var rows []Delivery
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		panic("delivery: invalid seed fixture: " + err.Error())
	}
	return rows
}

// Seed returns a fresh copy of the sample deliveries.
func Seed() []Delivery {
	out := make([]Delivery, len(seedRows))
	for i, d := range seedRows {
		d.ProduceSummary = slices.Clone(d.ProduceSummary)
		out[i] = d
	}
	return out
}
