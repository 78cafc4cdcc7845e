package ingestion

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quantfield/fpml-trades/internal/database"
)

// FileInfo is a discovered FpML document on disk.
type FileInfo struct {
	Path string
}

// DocumentJob is one document queued for parsing, tied to its record in
// fpml_documents.
type DocumentJob struct {
	FilePath   string
	DocumentID int
}

// AppError is an error raised during the ingestion of one document. Fatal
// marks errors that void the whole document, such as a failed parse.
type AppError struct {
	DocumentID int
	Message    string
	Fatal      bool
	Err        error
}

func (e AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document %d: %s: %v", e.DocumentID, e.Message, e.Err)
	}
	return fmt.Sprintf("document %d: %s", e.DocumentID, e.Message)
}

func (e AppError) MarshalJSON() ([]byte, error) {
	detail := ""
	if e.Err != nil {
		detail = e.Err.Error()
	}
	return json.Marshal(struct {
		DocumentID int    `json:"document_id"`
		Message    string `json:"message"`
		Detail     string `json:"detail,omitempty"`
		Fatal      bool   `json:"fatal,omitempty"`
	}{e.DocumentID, e.Message, detail, e.Fatal})
}

// ExtractionChannels carries the work of the pipeline: queued documents,
// decoded trade records and errors.
type ExtractionChannels struct {
	Jobs    chan DocumentJob
	Results chan *database.TradeRecord
	Errors  chan AppError
}

// ExtractionWaitGroups tracks the three worker stages separately so they
// can be drained in order.
type ExtractionWaitGroups struct {
	ParserWg *sync.WaitGroup
	DbWg     *sync.WaitGroup
	MainWg   *sync.WaitGroup
}

// DocumentErrorMap accumulates the errors of each document across workers.
type DocumentErrorMap struct {
	Mu     sync.Mutex
	Errors map[int][]AppError
	Fatal  map[int]bool
}

// DocumentMap tracks document record ids back to their file paths.
type DocumentMap map[int]string

// SetupReturn bundles the channels and bookkeeping of one ingestion run.
type SetupReturn struct {
	Channels          *ExtractionChannels
	WaitGroups        *ExtractionWaitGroups
	DocumentMap       *DocumentMap
	DocumentErrorsMap *DocumentErrorMap
}

func (s SetupReturn) GetValues() (*ExtractionChannels, *ExtractionWaitGroups, *DocumentMap, *DocumentErrorMap) {
	return s.Channels, s.WaitGroups, s.DocumentMap, s.DocumentErrorsMap
}
