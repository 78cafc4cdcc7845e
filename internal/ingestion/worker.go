package ingestion

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/quantfield/fpml-trades/internal/database"
	"github.com/quantfield/fpml-trades/internal/fpml"
	"github.com/quantfield/fpml-trades/pkg/checksum"
)

type Runner[T any] struct {
	Run T
}

type AsyncWorkerConfig struct {
	NumDBWorkers int
	DBBatchSize  int
	OurParty     string
}

// Worker defines the interface for asynchronous processing tasks.
type Worker interface {
	WithChannels(channels *ExtractionChannels) Worker
	WithWaitGroups(waitGroups *ExtractionWaitGroups) Worker
	SetupErrorWorker() (Runner[func(*DocumentErrorMap)], *sync.WaitGroup, error)
	SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error)
	SetupDBWorkers() (Runner[func(func([]*database.TradeRecord, string) error) error], *sync.WaitGroup, error)
	SetupJobDispatcherWorker(fileInfos []FileInfo, documentMap DocumentMap) (Runner[func()], *sync.WaitGroup, error)
}

type AsyncWorker struct {
	config     AsyncWorkerConfig
	dbManager  database.DBManager
	channels   *ExtractionChannels
	waitGroups *ExtractionWaitGroups
}

func NewAsyncWorker(dbManager database.DBManager, cfg AsyncWorkerConfig) *AsyncWorker {
	return &AsyncWorker{
		dbManager: dbManager,
		config:    cfg,
	}
}

func (w *AsyncWorker) WithChannels(channels *ExtractionChannels) Worker {
	w.channels = channels
	return w
}

func (w *AsyncWorker) WithWaitGroups(waitGroups *ExtractionWaitGroups) Worker {
	w.waitGroups = waitGroups
	return w
}

// ParserWorker decodes documents from the jobs channel into trade records.
// Decoding is all or nothing, so any parse failure voids the whole
// document instead of producing a partial result.
func (w *AsyncWorker) ParserWorker() {
	defer w.waitGroups.ParserWg.Done()
	for job := range w.channels.Jobs {
		log.Printf("Parser worker started job for document %s (ID: %d)\n", job.FilePath, job.DocumentID)
		records, err := w.parseDocument(job)
		if err != nil {
			w.channels.Errors <- AppError{DocumentID: job.DocumentID, Message: "Failed to parse document", Fatal: true, Err: err}
			continue
		}
		for _, record := range records {
			w.channels.Results <- record
		}
		log.Printf("Parser worker finished job for document %s (ID: %d), %d trades\n", job.FilePath, job.DocumentID, len(records))
	}
}

func (w *AsyncWorker) parseDocument(job DocumentJob) ([]*database.TradeRecord, error) {
	data, err := os.ReadFile(job.FilePath)
	if err != nil {
		return nil, err
	}
	parser, err := fpml.New(data, w.config.OurParty)
	if err != nil {
		return nil, err
	}
	trades, err := parser.ParseTrades()
	if err != nil {
		return nil, err
	}
	return tradeRecords(job.DocumentID, trades)
}

func (w *AsyncWorker) SetupParserWorkers(numberOfWorkers int) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			for i := 1; i <= numberOfWorkers; i++ {
				w.waitGroups.ParserWg.Add(1)
				go w.ParserWorker()
			}
		},
	}, w.waitGroups.ParserWg, nil
}

func (w *AsyncWorker) DbWorker(workerId int, stagingTableName string, dbHandler func([]*database.TradeRecord, string) error) {
	log.Printf("DB Worker %d: Starting to process trades using table %s\n", workerId, stagingTableName)
	defer w.waitGroups.DbWg.Done()
	records := make([]*database.TradeRecord, 0, w.config.DBBatchSize)

	flush := func(message string) {
		if len(records) == 0 {
			return
		}
		log.Printf("DB Worker %d: Inserting batch of %d trades using table %s\n", workerId, len(records), stagingTableName)
		err := dbHandler(records, stagingTableName)
		if err != nil {
			// The batch failed, so report an error for each unique document in the batch.
			documentIDs := make(map[int]bool)
			for _, record := range records {
				documentIDs[record.DocumentID] = true
			}
			for documentID := range documentIDs {
				w.channels.Errors <- AppError{DocumentID: documentID, Message: message, Err: err}
			}
		}
		records = records[:0]
	}

	for result := range w.channels.Results {
		records = append(records, result)
		if len(records) >= w.config.DBBatchSize {
			flush("Failed to insert batch of trades")
		}
	}

	// Insert any remaining trades
	flush("Failed to insert remaining batch of trades")

	log.Printf("DB worker %d finished.", workerId)
}

func (w *AsyncWorker) SetupDBWorkers() (Runner[func(func([]*database.TradeRecord, string) error) error], *sync.WaitGroup, error) {
	return Runner[func(func([]*database.TradeRecord, string) error) error]{
		Run: func(dbHandler func([]*database.TradeRecord, string) error) error {
			stagingTableNames, err := w.dbManager.CreateWorkerStagingTables(w.config.NumDBWorkers)
			if err != nil {
				return err
			}
			for i := 1; i <= w.config.NumDBWorkers; i++ {
				w.waitGroups.DbWg.Add(1)
				go w.DbWorker(i, stagingTableNames[i-1], dbHandler)
			}
			return nil
		},
	}, w.waitGroups.DbWg, nil
}

func (w *AsyncWorker) ErrorWorker(documentErrorsMap *DocumentErrorMap) {
	defer w.waitGroups.MainWg.Done()
	for appErr := range w.channels.Errors {
		log.Printf("Caught error: %s\n", appErr.Error())
		if appErr.DocumentID == -1 {
			continue
		}
		documentErrorsMap.Mu.Lock()
		if appErr.Fatal {
			documentErrorsMap.Fatal[appErr.DocumentID] = true
		}
		// limit the number of errors per document to prevent memory overflow
		if len(documentErrorsMap.Errors[appErr.DocumentID]) < 100 {
			documentErrorsMap.Errors[appErr.DocumentID] = append(documentErrorsMap.Errors[appErr.DocumentID], appErr)
		} else {
			log.Printf("Document %d has too many errors, skipping\n", appErr.DocumentID)
		}
		documentErrorsMap.Mu.Unlock()
	}
}

func (w *AsyncWorker) PreprocessAndDispatchJobs(fileInfos []FileInfo, documentMap DocumentMap) {
	defer close(w.channels.Jobs)
	defer w.waitGroups.MainWg.Done()

	for _, fileInfo := range fileInfos {
		sum, err := checksum.OfFile(fileInfo.Path)
		if err != nil {
			log.Printf("ERROR: Failed to calculate checksum for %s: %v. Skipping file.", fileInfo.Path, err)
			continue
		}

		isProcessed, err := w.dbManager.IsDocumentAlreadyProcessed(sum)
		if err != nil {
			log.Printf("ERROR: Failed to check if document %s is already processed: %v. Skipping file.", fileInfo.Path, err)
			continue
		}
		if isProcessed {
			log.Printf("INFO: Document %s (checksum: %s) has already been processed. Skipping.", fileInfo.Path, sum)
			continue
		}

		documentID, err := w.dbManager.InsertDocumentRecord(
			fileInfo.Path,
			time.Now(),
			database.DOC_STATUS_PROCESSING,
			sum,
		)
		if err != nil {
			log.Printf("ERROR: Failed to insert document record for %s: %v. Skipping file.", fileInfo.Path, err)
			continue
		}

		documentMap[documentID] = fileInfo.Path

		log.Printf("Dispatching job for document: %s (DocumentID: %d)", fileInfo.Path, documentID)
		w.channels.Jobs <- DocumentJob{FilePath: fileInfo.Path, DocumentID: documentID}
	}
}

func (w *AsyncWorker) SetupJobDispatcherWorker(fileInfos []FileInfo, documentMap DocumentMap) (Runner[func()], *sync.WaitGroup, error) {
	return Runner[func()]{
		Run: func() {
			w.waitGroups.MainWg.Add(1)
			go w.PreprocessAndDispatchJobs(fileInfos, documentMap)
		},
	}, w.waitGroups.MainWg, nil
}

func (w *AsyncWorker) SetupErrorWorker() (Runner[func(*DocumentErrorMap)], *sync.WaitGroup, error) {
	return Runner[func(*DocumentErrorMap)]{
		Run: func(documentErrorsMap *DocumentErrorMap) {
			w.waitGroups.MainWg.Add(1)
			go w.ErrorWorker(documentErrorsMap)
		},
	}, w.waitGroups.MainWg, nil
}
