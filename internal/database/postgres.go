package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbpool, nil
}

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

func NewPostgresDBManager(ctx context.Context, pool *pgxpool.Pool) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool, ctx: ctx}
}

func (m *PostgresDBManager) CreateDocumentRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS fpml_documents (
		id SERIAL PRIMARY KEY,
		file_name VARCHAR(255) NOT NULL,
		processed_at TIMESTAMP NOT NULL,
		status VARCHAR(50) NOT NULL CHECK (status IN ('DONE', 'DONE_WITH_ERRORS', 'PROCESSING', 'FATAL')),
		checksum VARCHAR(64),
		errors jsonb
	);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating fpml_documents table: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) CreateTradeRecordsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS fpml_trades (
		id BIGSERIAL PRIMARY KEY,
		document_id INTEGER NOT NULL,
		trade_id VARCHAR(255) NOT NULL,
		trade_scheme VARCHAR(255) NOT NULL,
		counterparty VARCHAR(255) NOT NULL,
		trade_date TIMESTAMP NOT NULL,
		product VARCHAR(50) NOT NULL,
		payload jsonb NOT NULL,
		checksum VARCHAR(64) NOT NULL
	);`

	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error creating fpml_trades table: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) CreateWorkerStagingTables(numTables int) ([]string, error) {
	if numTables <= 0 {
		return nil, nil
	}

	stagingTableNames := make([]string, numTables)
	for w := 1; w <= numTables; w++ {
		stagingTableNames[w-1] = fmt.Sprintf("fpml_trades_staging_worker_%d", w)
	}

	tx, err := m.dbpool.Begin(m.ctx)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %v", err)
	}

	existingTables := make(map[string]bool)
	placeholders := make([]string, len(stagingTableNames))
	args := make([]interface{}, len(stagingTableNames))

	for i, name := range stagingTableNames {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = name
	}

	checkQuery := fmt.Sprintf(
		`SELECT tablename FROM pg_tables WHERE tablename = ANY(ARRAY[%s])`,
		strings.Join(placeholders, ", "))

	rows, err := tx.Query(m.ctx, checkQuery, args...)
	if err != nil {
		rx := tx.Rollback(m.ctx)
		if rx != nil {
			log.Printf("Error rolling back transaction: %v", rx)
		}
		return nil, fmt.Errorf("error checking existing staging tables: %w", err)
	}

	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			rows.Close()
			rx := tx.Rollback(m.ctx)
			if rx != nil {
				log.Printf("Error rolling back transaction: %v", rx)
			}
			return nil, fmt.Errorf("error scanning tablename: %w", err)
		}
		existingTables[tableName] = true
	}

	rows.Close()
	if err := rows.Err(); err != nil {
		rx := tx.Rollback(m.ctx)
		if rx != nil {
			log.Printf("Error rolling back transaction: %v", rx)
		}
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	for _, tableName := range stagingTableNames {
		if !existingTables[tableName] {
			query := fmt.Sprintf(`CREATE UNLOGGED TABLE IF NOT EXISTS %s (LIKE fpml_trades INCLUDING DEFAULTS);`,
				pgx.Identifier{tableName}.Sanitize())

			_, err := tx.Exec(m.ctx, query)
			if err != nil {
				rx := tx.Rollback(m.ctx)
				if rx != nil {
					log.Printf("Error rolling back transaction: %v", rx)
				}
				return nil, fmt.Errorf("error creating worker staging table %s: %v", tableName, err)
			}
			log.Printf("Created staging table %s", tableName)
		} else {
			log.Printf("Staging table %s already exists, skipping creation", tableName)
		}
	}

	if err := tx.Commit(m.ctx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %v", err)
	}

	return stagingTableNames, nil
}

func (m *PostgresDBManager) DropWorkerStagingTable(tableName string) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, pgx.Identifier{tableName}.Sanitize())
	_, err := m.dbpool.Exec(m.ctx, query)
	if err != nil {
		return fmt.Errorf("error dropping worker staging table %s: %v", tableName, err)
	}
	return nil
}

func (m *PostgresDBManager) CreateTradeRecordIndexes() error {
	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_fpml_trades_trade_id ON fpml_trades (trade_id) INCLUDE (counterparty, trade_date, product);`,
		`CREATE INDEX IF NOT EXISTS idx_fpml_trades_document_id ON fpml_trades (document_id);`,
	}

	for _, query := range queries {
		_, err := m.dbpool.Exec(m.ctx, query)
		if err != nil {
			return fmt.Errorf("error creating index: %v", err)
		}
	}

	return nil
}

func (m *PostgresDBManager) DropTradeRecordIndexes() error {
	queries := []string{
		`DROP INDEX IF EXISTS idx_fpml_trades_trade_id`,
		`DROP INDEX IF EXISTS idx_fpml_trades_document_id`,
	}

	for _, query := range queries {
		_, err := m.dbpool.Exec(m.ctx, query)
		if err != nil {
			return fmt.Errorf("error dropping index: %v", err)
		}
	}

	return nil
}

func (m *PostgresDBManager) InsertDocumentRecord(fileName string, date time.Time, status string, checksum string) (int, error) {
	query := `
	INSERT INTO fpml_documents (file_name, processed_at, status, checksum)
	VALUES ($1, $2, $3, $4)
	RETURNING id;`

	var documentID int
	err := m.dbpool.QueryRow(m.ctx, query, fileName, date, status, checksum).Scan(&documentID)
	if err != nil {
		return 0, fmt.Errorf("error inserting document record: %v", err)
	}

	return documentID, nil
}

func (m *PostgresDBManager) UpdateDocumentStatus(documentID int, status string, errors any) error {
	query := `
	UPDATE fpml_documents
	SET status = $1,
		errors = $2
	WHERE id = $3;`

	_, err := m.dbpool.Exec(m.ctx, query, status, errors, documentID)
	if err != nil {
		return fmt.Errorf("error updating document status: %v", err)
	}

	return nil
}

func (m *PostgresDBManager) IsDocumentAlreadyProcessed(checksum string) (bool, error) {
	query := `
	SELECT id
	FROM fpml_documents
	WHERE checksum = $1 AND status = 'DONE';`

	var id int

	err := m.dbpool.QueryRow(m.ctx, query, checksum).Scan(&id)

	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error finding document record by checksum: %v", err)
	}

	return true, nil
}

func (m *PostgresDBManager) CopyTradesIntoStagingTable(tx pgx.Tx, records []*TradeRecord, stagingTableName string) error {
	// The column order here must match the order in the `fpml_trades` table.
	columnNames := []string{
		"document_id", "trade_id", "trade_scheme", "counterparty", "trade_date", "product", "payload", "checksum",
	}

	copySource := pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
		record := records[i]
		return []interface{}{record.DocumentID, record.TradeID, record.TradeScheme, record.Counterparty, record.TradeDate, record.Product, record.Payload, record.Checksum},
			nil
	})

	_, err := tx.CopyFrom(
		m.ctx,
		pgx.Identifier{stagingTableName},
		columnNames,
		copySource,
	)

	return err
}

// InsertDiffFromStagingTable inserts the difference between staging table data and fpml_trades
// using a CTE to identify records in the staging table that are not in fpml_trades by checksum value.
func (m *PostgresDBManager) InsertDiffFromStagingTable(records []*TradeRecord, stagingTableName string) error {
	tx, err := m.dbpool.Begin(m.ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %v", err)
	}
	defer tx.Rollback(m.ctx)

	log.Printf("Bulk loading %d trades into staging table %s", len(records), stagingTableName)
	err = m.CopyTradesIntoStagingTable(tx, records, stagingTableName)
	if err != nil {
		return fmt.Errorf("unable to copy trades to staging table %s: %v", stagingTableName, err)
	}
	insertDiffQuery := fmt.Sprintf(`
	WITH staging_diff AS (
		SELECT s.document_id, s.trade_id, s.trade_scheme, s.counterparty, s.trade_date, s.product, s.payload, s.checksum
		FROM %s s
		WHERE NOT EXISTS (
			SELECT 1
			FROM fpml_trades t
			WHERE t.checksum = s.checksum
		)
	)
	INSERT INTO fpml_trades (document_id, trade_id, trade_scheme, counterparty, trade_date, product, payload, checksum)
	SELECT document_id, trade_id, trade_scheme, counterparty, trade_date, product, payload, checksum
	FROM staging_diff;
	`, pgx.Identifier{stagingTableName}.Sanitize())

	log.Printf("Inserting differences from staging table %s to main table using CTE.", stagingTableName)
	_, err = tx.Exec(m.ctx, insertDiffQuery)
	if err != nil {
		return fmt.Errorf("error inserting differences from staging table %s: %v", stagingTableName, err)
	}

	truncateQuery := fmt.Sprintf(`TRUNCATE %s;`, pgx.Identifier{stagingTableName}.Sanitize())
	log.Printf("Truncating staging table %s.", stagingTableName)
	_, err = tx.Exec(m.ctx, truncateQuery)
	if err != nil {
		log.Printf("WARN: failed to truncate staging table %s: %v", stagingTableName, err)
	}

	return tx.Commit(m.ctx)
}

func (m *PostgresDBManager) GetTradesByTradeID(tradeID string) ([]StoredTrade, error) {
	query := `
	SELECT id, document_id, trade_id, trade_scheme, counterparty, trade_date, product, payload
	FROM fpml_trades
	WHERE trade_id = $1
	ORDER BY id;`

	rows, err := m.dbpool.Query(m.ctx, query, tradeID)
	if err != nil {
		return nil, fmt.Errorf("error querying trades by trade id: %w", err)
	}
	defer rows.Close()

	var trades []StoredTrade
	for rows.Next() {
		var trade StoredTrade
		if err := rows.Scan(&trade.ID, &trade.DocumentID, &trade.TradeID, &trade.TradeScheme,
			&trade.Counterparty, &trade.TradeDate, &trade.Product, &trade.Payload); err != nil {
			return nil, fmt.Errorf("error scanning trade row: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over trade rows: %w", err)
	}

	return trades, nil
}
