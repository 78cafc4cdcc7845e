package date

import (
	"fmt"
	"sync"
)

// Built-in business center calendars, keyed by FpML business center code.
// These cover weekends only; Register replaces an entry when real holiday
// data is available.
var builtinCenters = []string{
	"AUSY", "BRSP", "CATO", "CHZU", "DEFR", "DKCO", "EUTA", "FRPA",
	"GBLO", "HKHK", "JPTO", "NOOS", "NZWE", "SEST", "SGSI", "USCH",
	"USGS", "USNY", "ZAJO",
}

var (
	registryMu sync.RWMutex
	registry   = buildRegistry()
)

func buildRegistry() map[string]Calendar {
	m := make(map[string]Calendar, len(builtinCenters)+1)
	for _, code := range builtinCenters {
		m[code] = weekendCalendar{name: code}
	}
	m[NoHolidaysName] = NoHolidays
	return m
}

// Lookup resolves a business center identifier to a calendar, failing on
// unknown identifiers.
func Lookup(id string) (Calendar, error) {
	registryMu.RLock()
	cal, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown business center '%s'", id)
	}
	return cal, nil
}

// Register installs or replaces a calendar under its own name. Intended for
// loading real holiday data at startup.
func Register(cal Calendar) {
	registryMu.Lock()
	registry[cal.Name()] = cal
	registryMu.Unlock()
}
