package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Expect: defaults to apply when only required variables are set", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/fpml")
		t.Setenv("OUR_PARTY", "ACME-CORP")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, "postgres://localhost:5432/fpml", cfg.DatabaseURL)
		assert.Equal(t, "ACME-CORP", cfg.OurParty)
		assert.Equal(t, 4, cfg.NumParserWorkers)
		assert.Equal(t, 2, cfg.NumDBWorkers)
		assert.Equal(t, 10000, cfg.ResultsChannelSize)
		assert.Equal(t, 500, cfg.DBBatchSize)
	})

	t.Run("Expect: overrides from the environment to win", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/fpml")
		t.Setenv("OUR_PARTY", "ACME-CORP")
		t.Setenv("NUM_PARSER_WORKERS", "8")
		t.Setenv("NUM_DB_WORKERS", "3")
		t.Setenv("RESULTS_CHANNEL_SIZE", "100")
		t.Setenv("DB_BATCH_SIZE", "50")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.NumParserWorkers)
		assert.Equal(t, 3, cfg.NumDBWorkers)
		assert.Equal(t, 100, cfg.ResultsChannelSize)
		assert.Equal(t, 50, cfg.DBBatchSize)
	})

	t.Run("Expect: a missing DATABASE_URL to fail", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("OUR_PARTY", "ACME-CORP")

		_, err := New()
		assert.Error(t, err)
	})

	t.Run("Expect: a missing OUR_PARTY to fail", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/fpml")
		t.Setenv("OUR_PARTY", "")

		_, err := New()
		assert.Error(t, err)
	})

	t.Run("Expect: a non-numeric worker count to fail", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/fpml")
		t.Setenv("OUR_PARTY", "ACME-CORP")
		t.Setenv("NUM_PARSER_WORKERS", "many")

		_, err := New()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NUM_PARSER_WORKERS")
	})
}
