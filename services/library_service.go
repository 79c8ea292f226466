package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/services/storage"
	"github.com/sahilchouksey/campus-shelf/utils/pdfvalidation"
	"gorm.io/gorm"
)

// ErrInvalidDocument wraps PDF validation failures so handlers can map them
// to a 400 with the validation message.
var ErrInvalidDocument = errors.New("invalid document")

// LibraryService handles the object-storage side of document uploads and
// deletions. Creation is two-phase: the file is uploaded first, then the
// database row is inserted; if the insert fails the uploaded object is
// removed again. Deletion removes the database row first and falls back to
// an orphaned-file record when the object delete fails, so the registry
// never references a missing row while the reconciliation job catches up on
// storage.
type LibraryService struct {
	db    *gorm.DB
	store storage.ObjectStorage
}

// NewLibraryService creates a new library service
func NewLibraryService(db *gorm.DB, store storage.ObjectStorage) *LibraryService {
	return &LibraryService{
		db:    db,
		store: store,
	}
}

// UploadResult describes a stored document file
type UploadResult struct {
	FileID    string
	FileURL   string
	FileSize  int64
	PageCount int
}

// ValidateAndUpload validates the PDF against the given limits and stores it
// under the prefix. This is phase one of document creation.
func (s *LibraryService) ValidateAndUpload(ctx context.Context, prefix string, file *multipart.FileHeader, limits pdfvalidation.PDFLimits) (*UploadResult, error) {
	validationResult, err := pdfvalidation.ValidatePDFFile(file, limits)
	if err != nil {
		return nil, fmt.Errorf("failed to validate file: %w", err)
	}
	if !validationResult.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, validationResult.Error)
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key := storage.GenerateKey(prefix, file.Filename)
	url, err := s.store.UploadBytes(ctx, key, content, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		FileID:    key,
		FileURL:   url,
		FileSize:  validationResult.FileSize,
		PageCount: validationResult.PageCount,
	}, nil
}

// Discard is the compensating action for a failed database insert: it removes
// the just-uploaded object. When the removal itself fails the key is recorded
// as orphaned so the reconciliation job retries it.
func (s *LibraryService) Discard(ctx context.Context, fileID, source string) {
	if err := s.store.DeleteFile(ctx, fileID); err != nil {
		log.Printf("Failed to discard uploaded file %s: %v", fileID, err)
		s.recordOrphan(fileID, source, err)
	}
}

// RemoveFile deletes an object after its owning row is gone. Failures are
// recorded as orphaned files instead of being surfaced to the caller.
func (s *LibraryService) RemoveFile(ctx context.Context, fileID, source string) {
	if fileID == "" {
		return
	}
	if err := s.store.DeleteFile(ctx, fileID); err != nil {
		log.Printf("Failed to delete file %s from storage: %v", fileID, err)
		s.recordOrphan(fileID, source, err)
	}
}

// FileURL exposes the public URL for a stored object
func (s *LibraryService) FileURL(key string) string {
	return s.store.FileURL(key)
}

func (s *LibraryService) recordOrphan(fileID, source string, cause error) {
	orphan := model.OrphanedFile{
		FileID:    fileID,
		Source:    source,
		Attempts:  1,
		LastError: cause.Error(),
	}
	if err := s.db.Create(&orphan).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			s.db.Model(&model.OrphanedFile{}).
				Where("file_id = ?", fileID).
				Updates(map[string]interface{}{
					"attempts":   gorm.Expr("attempts + 1"),
					"last_error": cause.Error(),
				})
			return
		}
		log.Printf("Failed to record orphaned file %s: %v", fileID, err)
	}
}
