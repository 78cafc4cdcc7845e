package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfield/fpml-trades/internal/basics"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name     string
		expected FloatingRateIndex
	}{
		{"GBP-LIBOR-BBA", FloatingRateIndex{Name: "GBP-LIBOR-BBA", Family: "GBP-LIBOR", Kind: KindIbor}},
		{"EUR-EURIBOR-Reuters", FloatingRateIndex{Name: "EUR-EURIBOR-Reuters", Family: "EUR-EURIBOR", Kind: KindIbor}},
		{"EUR-EURIBOR-Telerate", FloatingRateIndex{Name: "EUR-EURIBOR-Telerate", Family: "EUR-EURIBOR", Kind: KindIbor}},
		{"GBP-WMBA-SONIA-COMPOUND", FloatingRateIndex{Name: "GBP-WMBA-SONIA-COMPOUND", Family: "GBP-SONIA", Kind: KindOvernightCompounded}},
		{"USD-Federal Funds-H.15-OIS-COMPOUND", FloatingRateIndex{Name: "USD-Federal Funds-H.15-OIS-COMPOUND", Family: "USD-FED-FUND", Kind: KindOvernightCompounded}},
		{"USD-Federal Funds-H.15", FloatingRateIndex{Name: "USD-Federal Funds-H.15", Family: "USD-FED-FUND", Kind: KindOvernightAveraged}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Of(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, idx)
		})
	}

	t.Run("Expect: unknown names to fail", func(t *testing.T) {
		_, err := Of("GBP-MADE-UP")
		assert.Error(t, err)
	})
}

func TestFloatingRateIndex_ToIbor(t *testing.T) {
	t.Run("Expect: the tenor to join the family name", func(t *testing.T) {
		idx, err := Of("GBP-LIBOR-BBA")
		require.NoError(t, err)

		ibor, err := idx.ToIbor(basics.Period{Months: 3})
		require.NoError(t, err)
		assert.Equal(t, IborIndex{Name: "GBP-LIBOR-3M", Tenor: basics.Period{Months: 3}}, ibor)
	})

	t.Run("Expect: week tenors to render in days", func(t *testing.T) {
		idx, err := Of("USD-LIBOR-BBA")
		require.NoError(t, err)

		ibor, err := idx.ToIbor(basics.Period{Days: 7})
		require.NoError(t, err)
		assert.Equal(t, "USD-LIBOR-7D", ibor.Name)
	})

	t.Run("Expect: an overnight index to reject a tenor", func(t *testing.T) {
		idx, err := Of("GBP-WMBA-SONIA-COMPOUND")
		require.NoError(t, err)

		_, err = idx.ToIbor(basics.Period{Months: 3})
		assert.Error(t, err)
	})
}

func TestFloatingRateIndex_ToOvernight(t *testing.T) {
	t.Run("Expect: compounded indices to convert", func(t *testing.T) {
		idx, err := Of("GBP-WMBA-SONIA-COMPOUND")
		require.NoError(t, err)

		overnight, err := idx.ToOvernight()
		require.NoError(t, err)
		assert.Equal(t, OvernightIndex{Name: "GBP-SONIA"}, overnight)
	})

	t.Run("Expect: averaged indices to convert", func(t *testing.T) {
		idx, err := Of("USD-Federal Funds-H.15")
		require.NoError(t, err)

		overnight, err := idx.ToOvernight()
		require.NoError(t, err)
		assert.Equal(t, OvernightIndex{Name: "USD-FED-FUND"}, overnight)
	})

	t.Run("Expect: an ibor index to reject conversion", func(t *testing.T) {
		idx, err := Of("GBP-LIBOR-BBA")
		require.NoError(t, err)

		_, err = idx.ToOvernight()
		assert.Error(t, err)
	})
}
