package ingestion

import (
	"sync"

	"github.com/quantfield/fpml-trades/internal/database"
)

type ISetup interface {
	build(resultsChannelSize int) (SetupReturn, error)
}

type Setup struct{}

// Instantiate all channels and data structures we will use in the concurrent
// ingestion process. Its useful to have it in a separated struct to be able
// to leverage DI for testing
func (h Setup) build(resultsChannelSize int) (SetupReturn, error) {
	jobs := make(chan DocumentJob, 100)
	errors := make(chan AppError, 100)
	results := make(chan *database.TradeRecord, resultsChannelSize)

	channels := ExtractionChannels{
		Jobs:    jobs,
		Results: results,
		Errors:  errors,
	}

	var parserWg, dbWg, mainWg sync.WaitGroup
	documentMap := make(DocumentMap)
	documentErrorsMap := DocumentErrorMap{
		Errors: make(map[int][]AppError),
		Fatal:  make(map[int]bool),
	}
	return SetupReturn{
		Channels:          &channels,
		WaitGroups:        &ExtractionWaitGroups{ParserWg: &parserWg, DbWg: &dbWg, MainWg: &mainWg},
		DocumentMap:       &documentMap,
		DocumentErrorsMap: &documentErrorsMap,
	}, nil
}
