package ingestion

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantfield/fpml-trades/internal/database"
)

// Processor defines the interface for file processing operations.
type Processor interface {
	ScanForFiles(rootPath string) ([]FileInfo, error)
	UpdateDocumentStatus(documentErrorsMap *DocumentErrorMap, documentMap *DocumentMap) error
}

// FileProcessor handles the initial stages of document processing:
// discovering FpML files and updating document statuses after a run.
type FileProcessor struct {
	dbManager database.DBManager
}

// NewFileProcessor creates a new FileProcessor with the given DBManager.
func NewFileProcessor(dbManager database.DBManager) *FileProcessor {
	return &FileProcessor{
		dbManager: dbManager,
	}
}

// ScanForFiles walks a directory for FpML documents. Only .xml files are
// picked up; anything else in the tree is skipped.
func (fp *FileProcessor) ScanForFiles(rootPath string) ([]FileInfo, error) {
	var fileInfos []FileInfo
	log.Printf("Scanning for documents in: %s", rootPath)

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err // Propagate errors from walking the path
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			fileInfos = append(fileInfos, FileInfo{Path: path})
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", rootPath, err)
	}

	log.Printf("Found %d documents to process.", len(fileInfos))
	return fileInfos, nil
}

// UpdateDocumentStatus records the final status of every dispatched
// document. A fatal error voids the document, any other collected error
// demotes it to DONE_WITH_ERRORS.
func (fp *FileProcessor) UpdateDocumentStatus(documentErrorsMap *DocumentErrorMap, documentMap *DocumentMap) error {
	for documentID := range *documentMap {
		appErrors := documentErrorsMap.Errors[documentID]
		status := database.DOC_STATUS_DONE
		if documentErrorsMap.Fatal[documentID] {
			status = database.DOC_STATUS_FATAL
		} else if len(appErrors) > 0 {
			status = database.DOC_STATUS_DONE_WITH_ERRORS
		}

		if err := fp.dbManager.UpdateDocumentStatus(documentID, status, appErrors); err != nil {
			log.Printf("Failed to update status for documentID %d: %v\n", documentID, err)
		}
	}
	return nil
}
