package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// MediaPrefix is the URL path under which FileStore objects are served.
const MediaPrefix = "/media/"

// FileStore is Storage on a local directory, for the self-hosted driver.
type FileStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewFileStore(dir, publicBaseURL string, log *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log.With(zap.String("storage", "filestore")),
	}, nil
}

// Dir is the root directory objects are written under.
func (fs *FileStore) Dir() string {
	return fs.dir
}

// resolve maps an object path to a file inside dir, rejecting anything that
// would land outside it.
func (fs *FileStore) resolve(objectPath string) (string, error) {
	invalid := &Error{Status: http.StatusBadRequest, Code: "InvalidKey", Message: "Invalid key: " + objectPath}
	for _, segment := range strings.Split(objectPath, "/") {
		if segment == ".." {
			return "", invalid
		}
	}
	clean := path.Clean("/" + objectPath)
	if clean == "/" {
		return "", invalid
	}
	return filepath.Join(fs.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (fs *FileStore) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) error {
	target, err := fs.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return &Error{Status: http.StatusConflict, Code: "Duplicate", Message: "The resource already exists"}
	}
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		fs.log.Error("Failed to write object", zap.Error(err), zap.String("path", objectPath))
		return fmt.Errorf("write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("close object: %w", err)
	}

	fs.log.Info("Object stored",
		zap.String("path", objectPath),
		zap.String("content_type", contentType),
	)
	return nil
}

func (fs *FileStore) PublicURL(objectPath string) string {
	return fs.baseURL + MediaPrefix + escapePath(objectPath)
}
