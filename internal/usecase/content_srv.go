package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"catalog-console/internal/data/entity"
	"catalog-console/internal/data/repository"
	"catalog-console/internal/dto/request"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

// UploadFile is one file picked in the upload form.
type UploadFile struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

// ContentForm is the upload form: text and selection slots plus up to one
// file per asset kind. The form owns the file handles it holds.
type ContentForm struct {
	request.ContentRequest
	files map[entity.AssetKind]*UploadFile
}

// SetFile puts f in the kind slot, closing whatever was there before. A nil
// f clears the slot.
func (f *ContentForm) SetFile(kind entity.AssetKind, file *UploadFile) {
	if f.files == nil {
		f.files = make(map[entity.AssetKind]*UploadFile)
	}
	if old := f.files[kind]; old != nil && old.Body != nil {
		old.Body.Close()
	}
	if file == nil {
		delete(f.files, kind)
		return
	}
	f.files[kind] = file
}

func (f *ContentForm) File(kind entity.AssetKind) *UploadFile {
	return f.files[kind]
}

// Reset empties every field and releases the files.
func (f *ContentForm) Reset() {
	f.Close()
	f.ContentRequest = request.ContentRequest{}
}

// Close releases the files without touching the text fields.
func (f *ContentForm) Close() {
	for kind := range f.files {
		f.SetFile(kind, nil)
	}
}

type ContentService interface {
	// Submit uploads the form's files and inserts the content row. Each
	// step aborts the rest on failure and the form is left as it was; on
	// success the form is reset.
	Submit(ctx context.Context, sessionID string, form *ContentForm) (*entity.ContentRecord, error)
}

type contentService struct {
	content repository.ContentRepository
	assets  repository.AssetRepository
	now     func() time.Time
	log     *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewContentService(repo *repository.Repository, log *zap.Logger) ContentService {
	return &contentService{
		content: repo.Content,
		assets:  repo.Asset,
		now:     time.Now,
		log:     log.With(zap.String("service", "content")),
		pending: make(map[string]struct{}),
	}
}

func (s *contentService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.pending[sessionID]; busy {
		return false
	}
	s.pending[sessionID] = struct{}{}
	return true
}

func (s *contentService) release(sessionID string) {
	s.mu.Lock()
	delete(s.pending, sessionID)
	s.mu.Unlock()
}

func (s *contentService) Submit(ctx context.Context, sessionID string, form *ContentForm) (*entity.ContentRecord, error) {
	if !s.acquire(sessionID) {
		s.log.Warn("Rejected concurrent upload", zap.String("session_id", sessionID))
		return nil, ErrUploadInProgress
	}
	defer s.release(sessionID)

	if errs := utils.ValidateStruct(form.ContentRequest); len(errs) > 0 {
		return nil, &FormError{Message: utils.FormatValidationErrors(errs)}
	}

	submittedAt := s.now()
	urls := make(map[entity.AssetKind]*string, len(entity.AssetKinds))
	for _, kind := range entity.AssetKinds {
		file := form.File(kind)
		if file == nil {
			continue
		}

		path := utils.GenerateStoragePath(kind.Folder(), submittedAt, file.Name)
		asset, err := s.assets.Upload(ctx, kind, path, file.Body, file.ContentType)
		if err != nil {
			return nil, err
		}
		url := asset.PublicURL
		urls[kind] = &url
	}

	record := &entity.ContentRecord{
		Title:       form.Title,
		Description: form.Description,
		ReleaseYear: form.ReleaseYear,
		Genres:      append([]string{}, form.Genres...),
		WatchAge:    form.WatchAge,
		PosterURL:   urls[entity.AssetPoster],
		BackdropURL: urls[entity.AssetBackdrop],
		VideoURL:    urls[entity.AssetVideo],
	}
	if err := s.content.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("Content uploaded",
		zap.String("title", record.Title),
		zap.Int("assets", len(urls)),
	)
	form.Reset()
	return record, nil
}
