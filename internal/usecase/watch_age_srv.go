package usecase

import (
	"encoding/json"
	"strings"
	"time"

	"catalog-console/internal/data/entity"
	"catalog-console/internal/dto/request"
	"catalog-console/internal/dto/response"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

// WatchAgeService hands out watch-age screens. Nothing here is persisted:
// the list exists only in the page that shows it, and a reload starts over
// with an empty list.
type WatchAgeService interface {
	// Open restores a screen from the state string its last render emitted.
	Open(state string) *WatchAgeManager
}

type watchAgeService struct {
	now func() time.Time
	log *zap.Logger
}

func NewWatchAgeService(log *zap.Logger) WatchAgeService {
	return &watchAgeService{
		now: time.Now,
		log: log.With(zap.String("service", "watch_age")),
	}
}

func (s *watchAgeService) Open(state string) *WatchAgeManager {
	m := &WatchAgeManager{now: s.now, Items: []entity.WatchAge{}}
	if state == "" {
		return m
	}

	var items []entity.WatchAge
	if err := json.Unmarshal([]byte(state), &items); err != nil {
		s.log.Warn("Discarding unreadable watch age state", zap.Error(err))
		return m
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		if item.Mode != entity.RowEditing {
			item.Mode = entity.RowViewing
			item.Draft = ""
		}
		m.Items = append(m.Items, item)
	}
	return m
}

// WatchAgeManager is the state of one watch-age screen plus the
// notifications produced by the last operation.
type WatchAgeManager struct {
	now func() time.Time

	Items  []entity.WatchAge
	Label  string
	Toasts []response.Toast
}

func (m *WatchAgeManager) notify(kind, msg string) {
	m.Toasts = append(m.Toasts, response.Toast{Kind: kind, Message: msg})
}

func (m *WatchAgeManager) has(id string) bool {
	for _, item := range m.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Add appends a new entry labelled with the trimmed label.
func (m *WatchAgeManager) Add(label string) bool {
	m.Label = label
	if errs := utils.ValidateStruct(request.WatchAgeRequest{Label: label}); len(errs) > 0 {
		m.notify(response.ToastError, "Label cannot be empty")
		return false
	}

	m.Items = append(m.Items, entity.WatchAge{
		ID:    utils.GenerateTimeID(m.now(), m.has),
		Label: strings.TrimSpace(label),
		Mode:  entity.RowViewing,
	})
	m.Label = ""
	m.notify(response.ToastSuccess, "Watch age added")
	return true
}

// Delete drops the entry with id, keeping the order of the rest. The
// notification is shown whether or not anything matched.
func (m *WatchAgeManager) Delete(id string) {
	kept := m.Items[:0]
	for _, item := range m.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	m.Items = kept
	m.notify(response.ToastSuccess, "Deleted")
}

// Edit replaces the label of the entry with id in place.
func (m *WatchAgeManager) Edit(id, newLabel string) {
	for i := range m.Items {
		if m.Items[i].ID == id {
			m.Items[i].Label = newLabel
		}
	}
	m.notify(response.ToastSuccess, "Updated")
}

// BeginEdit switches one row to editing, seeding its edit box with the
// current label. Other rows keep their own mode.
func (m *WatchAgeManager) BeginEdit(id string) {
	for i := range m.Items {
		if m.Items[i].ID == id && m.Items[i].Mode != entity.RowEditing {
			m.Items[i].Mode = entity.RowEditing
			m.Items[i].Draft = m.Items[i].Label
		}
	}
}

// KeepDrafts copies the live edit-box text of rows still in editing mode
// over the drafts restored from state. Ids of viewing or unknown rows are
// ignored.
func (m *WatchAgeManager) KeepDrafts(drafts map[string]string) {
	for i := range m.Items {
		if draft, ok := drafts[m.Items[i].ID]; ok && m.Items[i].Mode == entity.RowEditing {
			m.Items[i].Draft = draft
		}
	}
}

// Save commits a row's edit box and returns the row to viewing.
func (m *WatchAgeManager) Save(id, draft string) {
	m.Edit(id, draft)
	for i := range m.Items {
		if m.Items[i].ID == id {
			m.Items[i].Mode = entity.RowViewing
			m.Items[i].Draft = ""
		}
	}
}

// State serializes the list for the next request.
func (m *WatchAgeManager) State() string {
	data, err := json.Marshal(m.Items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
