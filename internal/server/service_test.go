package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quantfield/fpml-trades/internal/database"
)

type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) CreateDocumentRecordsTable() error {
	return nil
}

func (m *MockDBManager) CreateTradeRecordsTable() error {
	return nil
}

func (m *MockDBManager) CreateTradeRecordIndexes() error {
	return nil
}

func (m *MockDBManager) DropTradeRecordIndexes() error {
	return nil
}

func (m *MockDBManager) CreateWorkerStagingTables(numTables int) ([]string, error) {
	return nil, nil
}

func (m *MockDBManager) DropWorkerStagingTable(tableName string) error {
	return nil
}

func (m *MockDBManager) InsertDocumentRecord(fileName string, date time.Time, status string, checksum string) (int, error) {
	return 0, nil
}

func (m *MockDBManager) UpdateDocumentStatus(documentID int, status string, errors any) error {
	return nil
}

func (m *MockDBManager) IsDocumentAlreadyProcessed(checksum string) (bool, error) {
	return false, nil
}

func (m *MockDBManager) InsertDiffFromStagingTable(records []*database.TradeRecord, stagingTableName string) error {
	return nil
}

func (m *MockDBManager) GetTradesByTradeID(tradeID string) ([]database.StoredTrade, error) {
	args := m.Called(tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.StoredTrade), args.Error(1)
}

func TestTradeService_GetTrades(t *testing.T) {
	t.Run("should return trades successfully", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service := NewTradeService(dbManager)

		tradeID := "FRA-2011-TEST"
		expectedTrades := []database.StoredTrade{
			{
				ID:           1,
				DocumentID:   3,
				TradeID:      tradeID,
				TradeScheme:  "FpML-tradeId",
				Counterparty: "FpML-partyId~PARTYB",
				TradeDate:    time.Date(2011, 5, 10, 0, 0, 0, 0, time.UTC),
				Product:      "fra",
				Payload:      json.RawMessage(`{"buy_sell":"BUY"}`),
			},
		}

		dbManager.On("GetTradesByTradeID", tradeID).Return(expectedTrades, nil).Once()

		req := httptest.NewRequest("GET", "/trades/"+tradeID, nil)
		rr := httptest.NewRecorder()

		service.GetTrades(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var actualTrades []database.StoredTrade
		err := json.NewDecoder(rr.Body).Decode(&actualTrades)
		assert.NoError(t, err)
		assert.Equal(t, expectedTrades, actualTrades)

		dbManager.AssertExpectations(t)
	})

	t.Run("should return error when trade id is not provided", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service := NewTradeService(dbManager)

		req := httptest.NewRequest("GET", "/trades/", nil)
		rr := httptest.NewRecorder()

		service.GetTrades(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should return not found when no trades match", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service := NewTradeService(dbManager)

		dbManager.On("GetTradesByTradeID", "UNKNOWN").Return([]database.StoredTrade{}, nil).Once()

		req := httptest.NewRequest("GET", "/trades/UNKNOWN", nil)
		rr := httptest.NewRecorder()

		service.GetTrades(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)

		dbManager.AssertExpectations(t)
	})

	t.Run("should return error when db manager fails", func(t *testing.T) {
		dbManager := new(MockDBManager)
		service := NewTradeService(dbManager)

		dbManager.On("GetTradesByTradeID", "FRA-1").Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest("GET", "/trades/FRA-1", nil)
		rr := httptest.NewRecorder()

		service.GetTrades(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		dbManager.AssertExpectations(t)
	})
}
