package basics

// Frequency is a periodic schedule frequency. The zero value is not valid;
// use ParseFrequency or the Term constant.
type Frequency struct {
	Period Period
	Term   bool
}

// FrequencyTerm represents a single period over the whole schedule ('T' in FpML).
var FrequencyTerm = Frequency{Term: true}

// ParseFrequency converts an FpML periodMultiplier/period pair into a
// Frequency. The unit 'T' yields the term frequency.
func ParseFrequency(multiplier, unit string) (Frequency, error) {
	if unit == "T" {
		return FrequencyTerm, nil
	}
	p, err := ParsePeriod(multiplier, unit)
	if err != nil {
		return Frequency{}, err
	}
	return Frequency{Period: p}, nil
}

func (f Frequency) String() string {
	if f.Term {
		return "Term"
	}
	return f.Period.String()
}
