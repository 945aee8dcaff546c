package usecase

import (
	"context"

	"catalog-console/internal/data/entity"
	"catalog-console/internal/data/repository"
	"catalog-console/internal/dto/request"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

type GenreService interface {
	// Open restores a genre screen from its input box and edit target.
	Open(name string, editID *int64) *GenreManager
}

type genreService struct {
	repo repository.GenreRepository
	log  *zap.Logger
}

func NewGenreService(repo repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		repo: repo,
		log:  log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) Open(name string, editID *int64) *GenreManager {
	return &GenreManager{
		repo:      s.repo,
		log:       s.log,
		Genres:    []entity.Genre{},
		Name:      name,
		IsEditing: editID != nil,
		EditID:    editID,
	}
}

// GenreManager is the state of one genre screen. Genres only ever holds the
// result of the last successful fetch; every mutation is followed by a full
// refetch rather than patching the list in place.
type GenreManager struct {
	repo repository.GenreRepository
	log  *zap.Logger

	Genres    []entity.Genre
	Name      string
	IsEditing bool
	EditID    *int64
}

// FetchAll replaces Genres with the table contents. On error the previous
// list stays visible.
func (m *GenreManager) FetchAll(ctx context.Context) error {
	genres, err := m.repo.FindAll(ctx)
	if err != nil {
		m.log.Error("Error fetching genres", zap.Error(err))
		return err
	}
	m.Genres = genres
	return nil
}

// CreateOrUpdate saves name as a new genre, or as the new name of the genre
// under edit. Blank names are ignored. On error nothing but the input box
// changes, so the user can retry.
func (m *GenreManager) CreateOrUpdate(ctx context.Context, name string) error {
	m.Name = name
	if errs := utils.ValidateStruct(request.GenreRequest{Name: name}); len(errs) > 0 {
		return nil
	}

	if m.IsEditing && m.EditID != nil {
		if err := m.repo.Update(ctx, *m.EditID, name); err != nil {
			m.log.Error("Update error", zap.Error(err), zap.Int64("genre_id", *m.EditID))
			return err
		}
	} else {
		if err := m.repo.Create(ctx, name); err != nil {
			m.log.Error("Insert error", zap.Error(err))
			return err
		}
	}

	m.FetchAll(ctx)
	m.resetEdit()
	return nil
}

// BeginEdit loads genre into the input box and makes it the save target.
func (m *GenreManager) BeginEdit(genre entity.Genre) {
	id := genre.ID
	m.Name = genre.Name
	m.IsEditing = true
	m.EditID = &id
}

// Delete removes the genre. If it was the one being edited the edit is
// abandoned.
func (m *GenreManager) Delete(ctx context.Context, id int64) error {
	if err := m.repo.Delete(ctx, id); err != nil {
		m.log.Error("Delete error", zap.Error(err), zap.Int64("genre_id", id))
		return err
	}

	m.FetchAll(ctx)
	if m.EditID != nil && *m.EditID == id {
		m.resetEdit()
	}
	return nil
}

// Find returns the genre with id from the current list.
func (m *GenreManager) Find(id int64) (entity.Genre, bool) {
	for _, g := range m.Genres {
		if g.ID == id {
			return g, true
		}
	}
	return entity.Genre{}, false
}

func (m *GenreManager) resetEdit() {
	m.IsEditing = false
	m.EditID = nil
	m.Name = ""
}
