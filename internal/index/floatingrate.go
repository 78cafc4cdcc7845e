// Package index interprets FpML floating rate index names.
//
// FpML uses a single key for floating rates of several kinds, mixing ibor
// and overnight indices. The mapping from FpML name to index family and
// kind is loaded once from an embedded configuration resource.
package index

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/quantfield/fpml-trades/internal/basics"
)

// Kind classifies a floating rate index.
type Kind string

const (
	KindIbor                Kind = "Ibor"
	KindOvernightCompounded Kind = "OvernightCompounded"
	KindOvernightAveraged   Kind = "OvernightAveraged"
)

// IborIndex is a term deposit index for a specific tenor, such as
// GBP-LIBOR-3M.
type IborIndex struct {
	Name  string
	Tenor basics.Period
}

// OvernightIndex is a single overnight deposit index, such as GBP-SONIA.
type OvernightIndex struct {
	Name string
}

// FloatingRateIndex describes one FpML floating rate index name.
type FloatingRateIndex struct {
	// Name is the FpML name, such as 'GBP-LIBOR-BBA'.
	Name string
	// Family is the index family, such as 'GBP-LIBOR', to which an ibor
	// tenor is appended.
	Family string
	// Kind is the index classification.
	Kind Kind
}

//go:embed indices.yaml
var indicesYAML []byte

type indexConfig struct {
	Ibor                map[string]string `yaml:"ibor"`
	OvernightCompounded map[string]string `yaml:"overnightCompounded"`
	OvernightAveraged   map[string]string `yaml:"overnightAveraged"`
}

var known = loadIndices()

func loadIndices() map[string]FloatingRateIndex {
	var cfg indexConfig
	if err := yaml.Unmarshal(indicesYAML, &cfg); err != nil {
		// The resource is embedded at build time; a decode failure is a
		// packaging defect, not an input error.
		panic(fmt.Sprintf("index: decoding embedded indices.yaml: %v", err))
	}
	m := make(map[string]FloatingRateIndex)
	for name, family := range cfg.Ibor {
		m[name] = FloatingRateIndex{Name: name, Family: family, Kind: KindIbor}
	}
	for name, family := range cfg.OvernightCompounded {
		m[name] = FloatingRateIndex{Name: name, Family: family, Kind: KindOvernightCompounded}
	}
	for name, family := range cfg.OvernightAveraged {
		m[name] = FloatingRateIndex{Name: name, Family: family, Kind: KindOvernightAveraged}
	}
	return m
}

// Of resolves an FpML floating rate index name.
func Of(name string) (FloatingRateIndex, error) {
	idx, ok := known[name]
	if !ok {
		return FloatingRateIndex{}, fmt.Errorf("unknown floating rate index '%s'", name)
	}
	return idx, nil
}

// ToIbor converts the index to a tenor-specific ibor index.
func (f FloatingRateIndex) ToIbor(tenor basics.Period) (IborIndex, error) {
	if f.Kind != KindIbor {
		return IborIndex{}, fmt.Errorf("index '%s' is not an ibor index", f.Name)
	}
	return IborIndex{Name: f.Family + "-" + tenor.String(), Tenor: tenor}, nil
}

// ToOvernight converts the index to an overnight index.
func (f FloatingRateIndex) ToOvernight() (OvernightIndex, error) {
	if f.Kind != KindOvernightCompounded && f.Kind != KindOvernightAveraged {
		return OvernightIndex{}, fmt.Errorf("index '%s' is not an overnight index", f.Name)
	}
	return OvernightIndex{Name: f.Family}, nil
}
