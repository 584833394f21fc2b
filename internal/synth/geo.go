package synth

import (
	_ "embed"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"
)

//go:embed geodata.yaml
var geodataYAML []byte

// Country is one entry of the geographic reference set.
type Country struct {
	ISO       string   `yaml:"iso"`
	Currency  string   `yaml:"currency"`
	Languages []string `yaml:"languages"`
}

// City is a city with its country code.
type City struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
}

// GeoRef is the geographic reference set orders are drawn from.
type GeoRef struct {
	Countries []Country `yaml:"countries"`
	Cities    []City    `yaml:"cities"`

	byISO map[string]Country
}

// LoadGeoRef parses the embedded reference data and verifies every city
// resolves to a known country.
func LoadGeoRef() (*GeoRef, error) {
	var geo GeoRef
	if err := yaml.Unmarshal(geodataYAML, &geo); err != nil {
		return nil, fmt.Errorf("parse geo reference data: %w", err)
	}
	geo.byISO = make(map[string]Country, len(geo.Countries))
	for _, c := range geo.Countries {
		geo.byISO[c.ISO] = c
	}
	for _, city := range geo.Cities {
		if _, ok := geo.byISO[city.Country]; !ok {
			return nil, fmt.Errorf("city %s references unknown country %s", city.Name, city.Country)
		}
	}
	return &geo, nil
}

// RandomCity picks a city uniformly.
func (g *GeoRef) RandomCity(rng *rand.Rand) City {
	return g.Cities[rng.Intn(len(g.Cities))]
}

// CountryOf resolves a city's country.
func (g *GeoRef) CountryOf(city City) (Country, bool) {
	c, ok := g.byISO[city.Country]
	return c, ok
}
