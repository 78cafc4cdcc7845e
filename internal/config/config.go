package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL        string
	OurParty           string
	NumParserWorkers   int
	NumDBWorkers       int
	ResultsChannelSize int
	DBBatchSize        int
}

func New() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	ourParty := os.Getenv("OUR_PARTY")
	if ourParty == "" {
		return nil, fmt.Errorf("OUR_PARTY environment variable is not set")
	}

	cfg := &Config{
		DatabaseURL:        databaseURL,
		OurParty:           ourParty,
		NumParserWorkers:   4,
		NumDBWorkers:       2,
		ResultsChannelSize: 10000,
		DBBatchSize:        500,
	}

	var err error
	cfg.NumParserWorkers, err = getEnvAsInt("NUM_PARSER_WORKERS", cfg.NumParserWorkers)
	if err != nil {
		return nil, err
	}

	cfg.NumDBWorkers, err = getEnvAsInt("NUM_DB_WORKERS", cfg.NumDBWorkers)
	if err != nil {
		return nil, err
	}

	cfg.ResultsChannelSize, err = getEnvAsInt("RESULTS_CHANNEL_SIZE", cfg.ResultsChannelSize)
	if err != nil {
		return nil, err
	}

	cfg.DBBatchSize, err = getEnvAsInt("DB_BATCH_SIZE", cfg.DBBatchSize)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
