package database

import (
	"encoding/json"
	"time"
)

const (
	DOC_STATUS_DONE             = "DONE"
	DOC_STATUS_DONE_WITH_ERRORS = "DONE_WITH_ERRORS"
	DOC_STATUS_PROCESSING       = "PROCESSING"
	DOC_STATUS_FATAL            = "FATAL"
)

// TradeRecord is the flattened row stored for each decoded trade. Payload
// carries the product summary as JSON.
type TradeRecord struct {
	DocumentID   int
	TradeID      string
	TradeScheme  string
	Counterparty string
	TradeDate    time.Time
	Product      string
	Payload      []byte
	Checksum     string
}

// StoredTrade is a trade row read back for the query API.
type StoredTrade struct {
	ID           int64           `json:"id"`
	DocumentID   int             `json:"document_id"`
	TradeID      string          `json:"trade_id"`
	TradeScheme  string          `json:"trade_scheme"`
	Counterparty string          `json:"counterparty"`
	TradeDate    time.Time       `json:"trade_date"`
	Product      string          `json:"product"`
	Payload      json.RawMessage `json:"payload"`
}

// DBManager defines the persistence operations of the ingestion pipeline
// and the query API.
type DBManager interface {
	CreateDocumentRecordsTable() error
	CreateTradeRecordsTable() error
	CreateTradeRecordIndexes() error
	DropTradeRecordIndexes() error
	CreateWorkerStagingTables(numTables int) ([]string, error)
	DropWorkerStagingTable(tableName string) error
	InsertDocumentRecord(fileName string, date time.Time, status string, checksum string) (int, error)
	UpdateDocumentStatus(documentID int, status string, errors any) error
	IsDocumentAlreadyProcessed(checksum string) (bool, error)
	InsertDiffFromStagingTable(records []*TradeRecord, stagingTableName string) error
	GetTradesByTradeID(tradeID string) ([]StoredTrade, error)
}
