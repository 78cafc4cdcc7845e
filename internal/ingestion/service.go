package ingestion

import (
	"fmt"
	"log"

	"github.com/quantfield/fpml-trades/internal/config"
	"github.com/quantfield/fpml-trades/internal/database"
)

type IngestionService struct {
	dbManager     database.DBManager
	setupService  ISetup
	asyncWorker   Worker
	fileProcessor Processor
	config        config.Config
}

func NewIngestionService(dbManager database.DBManager, setupService ISetup, worker Worker, processor Processor, cfg config.Config) *IngestionService {
	return &IngestionService{
		dbManager:     dbManager,
		setupService:  setupService,
		asyncWorker:   worker,
		fileProcessor: processor,
		config:        cfg,
	}
}

// Execute orchestrates the document ingestion workflow.
func (h *IngestionService) Execute(filesPath string) error {
	// Step 0: Setup the extraction environment.
	environmentConfig, err := h.setupService.build(h.config.ResultsChannelSize)
	if err != nil {
		return err
	}

	channels, waitGroups, documentMap, documentErrorsMap := environmentConfig.GetValues()

	// Step 0.1: Scan for FpML documents to process.
	fileInfos, err := h.fileProcessor.ScanForFiles(filesPath)
	if err != nil {
		log.Printf("Failed to scan documents: %v", err)
		return err
	}

	// Step 0.2: Make sure the tables exist.
	if err := h.dbManager.CreateDocumentRecordsTable(); err != nil {
		return err
	}
	if err := h.dbManager.CreateTradeRecordsTable(); err != nil {
		return err
	}
	defer func() {
		log.Println("Re-creating trade record indexes...")
		h.dbManager.CreateTradeRecordIndexes()
	}()

	// Step 0.3: Drop indexes before starting for bulk load efficiency.
	log.Println("Dropping trade record indexes...")
	h.dbManager.DropTradeRecordIndexes()

	// Step 0.4: Setup the async worker channels and wait groups VERY IMPORTANT: can cause panic if not done
	h.asyncWorker.WithChannels(channels).WithWaitGroups(waitGroups)

	// Step 1: Preprocess documents and send jobs to the parser workers.
	// - Calculates checksums and skips documents already processed
	// - Saves document records to db
	// Sharing MainWg with error worker
	dispatcherWorkerRunner, _, err := h.asyncWorker.SetupJobDispatcherWorker(fileInfos, *documentMap)
	if err != nil {
		return err
	}
	dispatcherWorkerRunner.Run()

	// Step 2: Setup the error worker, this worker will handle async errors from the extraction process
	// Sharing MainWg with dispatcher worker
	errorWorkerRunner, mainWaitGroup, err := h.asyncWorker.SetupErrorWorker()
	if err != nil {
		return err
	}
	errorWorkerRunner.Run(documentErrorsMap)

	// Step 3: Setup parser workers
	// - Decode FpML documents into trade records
	// - Send trade records to the results channel
	parserWorkersRunner, parserWorkerWaitGroup, err := h.asyncWorker.SetupParserWorkers(h.config.NumParserWorkers)
	if err != nil {
		return err
	}
	parserWorkersRunner.Run()

	// Step 4: Configure DB workers. Each worker owns a staging table and
	// bulk loads batches of trade records into it.
	dbWorkersRunner, dbWorkerWaitGroup, err := h.asyncWorker.SetupDBWorkers()
	if err != nil {
		return err
	}

	// Step 5: Start DB workers. The diff insert keeps reprocessing
	// idempotent: records whose checksum already exists are not duplicated.
	err = dbWorkersRunner.Run(func(records []*database.TradeRecord, stagingTableName string) error {
		return h.dbManager.InsertDiffFromStagingTable(records, stagingTableName)
	})
	if err != nil {
		return err
	}

	// Step 6: Wait for all processing to complete.
	log.Println("Waiting for parser workers to finish...")
	parserWorkerWaitGroup.Wait()

	// Step 6.1: After parsers are done, close the results channel to signal DB workers to finish.
	close(channels.Results)

	// Step 6.2: Wait for DB workers to finish
	log.Println("Waiting for DB workers to finish...")
	dbWorkerWaitGroup.Wait()

	// Step 6.2.1: Drop the per-worker staging tables.
	for i := 1; i <= h.config.NumDBWorkers; i++ {
		tableName := fmt.Sprintf("fpml_trades_staging_worker_%d", i)
		if err := h.dbManager.DropWorkerStagingTable(tableName); err != nil {
			log.Printf("Failed to drop staging table %s: %v", tableName, err)
		}
	}

	// Step 6.3: Close the errors channel after all workers that can produce errors are done.
	close(channels.Errors)

	// Step 6.4: Wait for the error worker to finish
	log.Println("Waiting for error worker to finish...")
	mainWaitGroup.Wait()

	// Step 7: Update each document record with the outcome of the run.
	h.fileProcessor.UpdateDocumentStatus(documentErrorsMap, documentMap)

	log.Println("Ingestion process finished.")
	return nil
}
