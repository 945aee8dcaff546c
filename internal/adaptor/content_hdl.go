package adaptor

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"catalog-console/internal/data/entity"
	"catalog-console/internal/dto/request"
	"catalog-console/internal/dto/response"
	"catalog-console/internal/usecase"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

const multipartMemory = 8 << 20

// slotSources lists, in page order, the controls that write each text slot.
// When more than one control feeds a slot the last non-empty one wins.
var slotSources = struct {
	title, releaseYear, description []string
}{
	title:       []string{"average_rating"},
	releaseYear: []string{"duration", "content_type"},
	description: []string{"release_year", "release_type"},
}

type ContentHandler struct {
	service  usecase.ContentService
	view     *View
	maxBytes int64
	log      *zap.Logger
}

func NewContentHandler(service usecase.ContentService, view *View, config utils.StorageConfig, log *zap.Logger) *ContentHandler {
	maxMB := config.UploadMaxMB
	if maxMB <= 0 {
		maxMB = 512
	}
	return &ContentHandler{
		service:  service,
		view:     view,
		maxBytes: maxMB << 20,
		log:      log.With(zap.String("handler", "content")),
	}
}

func (h *ContentHandler) render(w http.ResponseWriter, r *http.Request, status int, form request.ContentRequest, message string, isError bool) {
	h.view.Render(w, r, status, "upload", response.Page{
		Title: "Upload Content",
		Data:  response.NewUploadPage(form, message, isError, entity.GenreCategories),
	})
}

// Show handles GET /upload
func (h *ContentHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, request.ContentRequest{}, "", false)
}

func lastNonEmpty(values map[string][]string, names []string) string {
	var out string
	for _, name := range names {
		for _, v := range values[name] {
			if v != "" {
				out = v
			}
		}
	}
	return out
}

func contentRequestFromForm(values map[string][]string) request.ContentRequest {
	return request.ContentRequest{
		Title:       lastNonEmpty(values, slotSources.title),
		Description: lastNonEmpty(values, slotSources.description),
		ReleaseYear: lastNonEmpty(values, slotSources.releaseYear),
		Genres:      append([]string{}, values["genres"]...),
		WatchAge:    lastNonEmpty(values, []string{"watch_age"}),
	}
}

// openFile returns the uploaded file for field, or nil when the input was
// left empty.
func openFile(mf *multipart.Form, field string) (*usecase.UploadFile, error) {
	for _, fh := range mf.File[field] {
		if fh.Filename == "" {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", field, err)
		}
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return &usecase.UploadFile{Name: fh.Filename, ContentType: contentType, Body: f}, nil
	}
	return nil, nil
}

// Upload handles POST /upload
func (h *ContentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		msg := "Error: " + err.Error()
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("Error: upload exceeds the %d MB limit", h.maxBytes>>20)
		}
		h.log.Warn("Failed to parse upload", zap.Error(err))
		h.render(w, r, http.StatusBadRequest, request.ContentRequest{}, msg, true)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form := &usecase.ContentForm{ContentRequest: contentRequestFromForm(r.MultipartForm.Value)}
	defer form.Close()

	for _, kind := range entity.AssetKinds {
		file, err := openFile(r.MultipartForm, string(kind))
		if err != nil {
			h.log.Error("Failed to read uploaded file", zap.Error(err))
			h.render(w, r, http.StatusBadRequest, form.ContentRequest, "Error: "+err.Error(), true)
			return
		}
		if file != nil {
			form.SetFile(kind, file)
		}
	}

	sessionID, _ := utils.GetSessionIDFromContext(r.Context())
	if _, err := h.service.Submit(r.Context(), sessionID, form); err != nil {
		h.render(w, r, http.StatusOK, form.ContentRequest, "Error: "+usecase.UserMessage(err), true)
		return
	}

	h.render(w, r, http.StatusOK, form.ContentRequest, "Content uploaded successfully!", false)
}
