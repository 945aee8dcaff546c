package utils

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUIDString() string {
	return uuid.New().String()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== TIME-BASED IDS ====================

// GenerateTimeID returns the current time in milliseconds as a decimal
// string, bumped forward until it is not present in taken.
func GenerateTimeID(now time.Time, taken func(id string) bool) string {
	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for taken != nil && taken(id) {
		ms++
		id = strconv.FormatInt(ms, 10)
	}
	return id
}

// ==================== STORAGE PATHS ====================

// GenerateStoragePath builds "<folder>/<ms>-<filename>". Only the base name
// of filename is kept so client-supplied paths cannot escape the folder.
func GenerateStoragePath(folder string, submittedAt time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return fmt.Sprintf("%s/%d-%s", folder, submittedAt.UnixMilli(), name)
}
