package ingestion

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/quantfield/fpml-trades/internal/config"
	"github.com/quantfield/fpml-trades/internal/database"
)

// MockDBManager is a mock implementation of the DBManager interface.
type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) CreateDocumentRecordsTable() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) CreateTradeRecordsTable() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) CreateTradeRecordIndexes() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) DropTradeRecordIndexes() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) CreateWorkerStagingTables(numTables int) ([]string, error) {
	args := m.Called(numTables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDBManager) DropWorkerStagingTable(tableName string) error {
	args := m.Called(tableName)
	return args.Error(0)
}

func (m *MockDBManager) InsertDocumentRecord(fileName string, date time.Time, status string, checksum string) (int, error) {
	args := m.Called(fileName, date, status, checksum)
	return args.Int(0), args.Error(1)
}

func (m *MockDBManager) UpdateDocumentStatus(documentID int, status string, errors any) error {
	args := m.Called(documentID, status, errors)
	return args.Error(0)
}

func (m *MockDBManager) IsDocumentAlreadyProcessed(checksum string) (bool, error) {
	args := m.Called(checksum)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBManager) InsertDiffFromStagingTable(records []*database.TradeRecord, stagingTableName string) error {
	args := m.Called(records, stagingTableName)
	return args.Error(0)
}

func (m *MockDBManager) GetTradesByTradeID(tradeID string) ([]database.StoredTrade, error) {
	args := m.Called(tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.StoredTrade), args.Error(1)
}

// MockWorker is a mock implementation of the Worker interface.
type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) WithChannels(channels *ExtractionChannels) Worker {
	m.Called(channels)
	return m
}

func (m *MockWorker) WithWaitGroups(waitGroups *ExtractionWaitGroups) Worker {
	m.Called(waitGroups)
	return m
}

func (m *MockWorker) SetupErrorWorker() (Runner[func(*DocumentErrorMap)], *sync.WaitGroup, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return Runner[func(*DocumentErrorMap)]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func(*DocumentErrorMap)]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(numberOfWorkers)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupDBWorkers() (Runner[func(func([]*database.TradeRecord, string) error) error], *sync.WaitGroup, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return Runner[func(func([]*database.TradeRecord, string) error) error]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func(func([]*database.TradeRecord, string) error) error]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

func (m *MockWorker) SetupJobDispatcherWorker(fileInfos []FileInfo, documentMap DocumentMap) (Runner[func()], *sync.WaitGroup, error) {
	args := m.Called(fileInfos, documentMap)
	if args.Get(0) == nil {
		return Runner[func()]{}, nil, args.Error(2)
	}
	return args.Get(0).(Runner[func()]), args.Get(1).(*sync.WaitGroup), args.Error(2)
}

// MockProcessor is a mock implementation of the Processor interface.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ScanForFiles(path string) ([]FileInfo, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FileInfo), args.Error(1)
}

func (m *MockProcessor) UpdateDocumentStatus(documentErrorsMap *DocumentErrorMap, documentMap *DocumentMap) error {
	args := m.Called(documentErrorsMap, documentMap)
	return args.Error(0)
}

// MockSetup is a mock implementation of the ISetup interface.
type MockSetup struct {
	mock.Mock
}

func (m *MockSetup) build(resultsChannelSize int) (SetupReturn, error) {
	args := m.Called(resultsChannelSize)
	return args.Get(0).(SetupReturn), args.Error(1)
}

func BuildTestSetup() (string, *MockDBManager, *MockWorker, *MockProcessor, *MockSetup, SetupReturn, config.Config) {
	const path = "some/path"
	dbManager := new(MockDBManager)
	worker := new(MockWorker)
	processor := new(MockProcessor)
	setup := new(MockSetup)

	cfg := config.Config{
		NumParserWorkers:   1,
		NumDBWorkers:       2,
		ResultsChannelSize: 100,
	}

	documentMap := make(DocumentMap)
	setupReturn := SetupReturn{
		Channels: &ExtractionChannels{
			Jobs:    make(chan DocumentJob, 100),
			Results: make(chan *database.TradeRecord, 100),
			Errors:  make(chan AppError, 100),
		},
		WaitGroups: &ExtractionWaitGroups{
			ParserWg: &sync.WaitGroup{},
			DbWg:     &sync.WaitGroup{},
			MainWg:   &sync.WaitGroup{},
		},
		DocumentMap:       &documentMap,
		DocumentErrorsMap: &DocumentErrorMap{Errors: make(map[int][]AppError), Fatal: make(map[int]bool)},
	}
	return path, dbManager, worker, processor, setup, setupReturn, cfg
}

func TestIngestionService_Execute(t *testing.T) {
	t.Run("Expect: Execute to run successfully", func(t *testing.T) {
		path, dbManager, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		scanResult := []FileInfo{{Path: "some/path/doc1.xml"}}
		setup.On("build", cfg.ResultsChannelSize).Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		dbManager.On("CreateDocumentRecordsTable").Return(nil).Once()
		dbManager.On("CreateTradeRecordsTable").Return(nil).Once()
		dbManager.On("DropTradeRecordIndexes").Return(nil).Once()
		dbManager.On("CreateTradeRecordIndexes").Return(nil).Once()
		dbManager.On("DropWorkerStagingTable", "fpml_trades_staging_worker_1").Return(nil).Once()
		dbManager.On("DropWorkerStagingTable", "fpml_trades_staging_worker_2").Return(nil).Once()
		worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
		worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
		worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.DocumentMap).
			Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupErrorWorker").
			Return(Runner[func(*DocumentErrorMap)]{Run: func(_ *DocumentErrorMap) {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupParserWorkers", cfg.NumParserWorkers).
			Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupDBWorkers").
			Return(Runner[func(func([]*database.TradeRecord, string) error) error]{
				Run: func(handler func([]*database.TradeRecord, string) error) error { return nil },
			}, &sync.WaitGroup{}, nil).Once()
		processor.On("UpdateDocumentStatus", setupReturn.DocumentErrorsMap, setupReturn.DocumentMap).Return(nil).Once()

		service := NewIngestionService(dbManager, setup, worker, processor, cfg)
		err := service.Execute(path)

		if err != nil {
			t.Errorf("Did not expect an error, but got: %v", err)
		}

		dbManager.AssertExpectations(t)
		worker.AssertExpectations(t)
		processor.AssertExpectations(t)
		setup.AssertExpectations(t)
	})

	t.Run("Expect: Error to be returned when setup build fails", func(t *testing.T) {
		path, dbManager, worker, processor, setup, _, cfg := BuildTestSetup()
		setup.On("build", cfg.ResultsChannelSize).Return(SetupReturn{}, errors.New("build error")).Once()

		service := NewIngestionService(dbManager, setup, worker, processor, cfg)
		err := service.Execute(path)

		if err == nil {
			t.Errorf("Expected an error, but got nil")
		}

		setup.AssertExpectations(t)
		processor.AssertNotCalled(t, "ScanForFiles")
	})

	t.Run("Expect: Error to be returned when ScanForFiles fails", func(t *testing.T) {
		path, dbManager, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		setup.On("build", cfg.ResultsChannelSize).Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(nil, errors.New("scan error")).Once()

		service := NewIngestionService(dbManager, setup, worker, processor, cfg)
		err := service.Execute(path)

		if err == nil {
			t.Errorf("Expected an error, but got nil")
		}

		setup.AssertExpectations(t)
		processor.AssertExpectations(t)
		dbManager.AssertNotCalled(t, "CreateDocumentRecordsTable")
	})

	t.Run("Expect: Error to be returned when SetupJobDispatcherWorker fails", func(t *testing.T) {
		path, dbManager, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		scanResult := []FileInfo{{Path: "some/path/doc1.xml"}}
		setup.On("build", cfg.ResultsChannelSize).Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		dbManager.On("CreateDocumentRecordsTable").Return(nil).Once()
		dbManager.On("CreateTradeRecordsTable").Return(nil).Once()
		dbManager.On("DropTradeRecordIndexes").Return(nil).Once()
		dbManager.On("CreateTradeRecordIndexes").Return(nil).Once()
		worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
		worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
		worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.DocumentMap).
			Return(nil, nil, errors.New("dispatcher error")).Once()

		service := NewIngestionService(dbManager, setup, worker, processor, cfg)
		err := service.Execute(path)

		if err == nil {
			t.Errorf("Expected an error, but got nil")
		}

		setup.AssertExpectations(t)
		processor.AssertExpectations(t)
		dbManager.AssertExpectations(t)
		worker.AssertExpectations(t)
		worker.AssertNotCalled(t, "SetupErrorWorker")
	})

	t.Run("Expect: Error to be returned when SetupParserWorkers fails", func(t *testing.T) {
		path, dbManager, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		scanResult := []FileInfo{{Path: "some/path/doc1.xml"}}
		setup.On("build", cfg.ResultsChannelSize).Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		dbManager.On("CreateDocumentRecordsTable").Return(nil).Once()
		dbManager.On("CreateTradeRecordsTable").Return(nil).Once()
		dbManager.On("DropTradeRecordIndexes").Return(nil).Once()
		dbManager.On("CreateTradeRecordIndexes").Return(nil).Once()
		worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
		worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
		worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.DocumentMap).
			Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupErrorWorker").
			Return(Runner[func(*DocumentErrorMap)]{Run: func(_ *DocumentErrorMap) {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupParserWorkers", cfg.NumParserWorkers).
			Return(nil, nil, errors.New("parser error")).Once()

		service := NewIngestionService(dbManager, setup, worker, processor, cfg)
		err := service.Execute(path)

		if err == nil {
			t.Errorf("Expected an error, but got nil")
		}

		setup.AssertExpectations(t)
		processor.AssertExpectations(t)
		dbManager.AssertExpectations(t)
		worker.AssertExpectations(t)
		worker.AssertNotCalled(t, "SetupDBWorkers")
	})

	t.Run("Expect: Error to be returned when the DB workers runner fails", func(t *testing.T) {
		path, dbManager, worker, processor, setup, setupReturn, cfg := BuildTestSetup()
		scanResult := []FileInfo{{Path: "some/path/doc1.xml"}}
		setup.On("build", cfg.ResultsChannelSize).Return(setupReturn, nil).Once()
		processor.On("ScanForFiles", path).Return(scanResult, nil).Once()
		dbManager.On("CreateDocumentRecordsTable").Return(nil).Once()
		dbManager.On("CreateTradeRecordsTable").Return(nil).Once()
		dbManager.On("DropTradeRecordIndexes").Return(nil).Once()
		dbManager.On("CreateTradeRecordIndexes").Return(nil).Once()
		worker.On("WithChannels", setupReturn.Channels).Return(worker).Once()
		worker.On("WithWaitGroups", setupReturn.WaitGroups).Return(worker).Once()
		worker.On("SetupJobDispatcherWorker", scanResult, *setupReturn.DocumentMap).
			Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupErrorWorker").
			Return(Runner[func(*DocumentErrorMap)]{Run: func(_ *DocumentErrorMap) {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupParserWorkers", cfg.NumParserWorkers).
			Return(Runner[func()]{Run: func() {}}, &sync.WaitGroup{}, nil).Once()
		worker.On("SetupDBWorkers").
			Return(Runner[func(func([]*database.TradeRecord, string) error) error]{
				Run: func(handler func([]*database.TradeRecord, string) error) error { return errors.New("db runner error") },
			}, &sync.WaitGroup{}, nil).Once()

		service := NewIngestionService(dbManager, setup, worker, processor, cfg)
		err := service.Execute(path)

		if err == nil {
			t.Errorf("Expected an error, but got nil")
		}

		setup.AssertExpectations(t)
		processor.AssertExpectations(t)
		dbManager.AssertExpectations(t)
		worker.AssertExpectations(t)
		processor.AssertNotCalled(t, "UpdateDocumentStatus")
	})
}
