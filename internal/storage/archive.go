// Package storage keeps the raw files users upload, next to the data parsed out of them.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when no file exists at a key
var ErrNotFound = errors.New("file not found")

// Metadata describes an archived upload
type Metadata struct {
	OriginalName string    `json:"originalName,omitempty"`
	ContentType  string    `json:"contentType,omitempty"`
	UploadedBy   string    `json:"uploadedBy,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Checksum     string    `json:"checksum"`
	Size         int64     `json:"size"`
}

// Archive stores uploaded files by key.
// Implementations can be local filesystem, S3, GCS, etc.
type Archive interface {
	// Put stores content at key; an existing file with the same key is replaced
	Put(ctx context.Context, key string, content []byte, meta Metadata) error

	// Get returns the content and metadata at key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, *Metadata, error)

	// List returns all keys under prefix in lexical order
	List(ctx context.Context, prefix string) ([]string, error)
}

// Checksum returns the hex SHA-256 of content
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// UploadKey builds the key for an upload of the given kind:
// <kind>/<yyyy-mm-dd>/<first 12 checksum chars>-<file name>
func UploadKey(kind string, at time.Time, checksum, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	short := checksum
	if len(short) > 12 {
		short = short[:12]
	}
	return fmt.Sprintf("%s/%s/%s-%s", kind, at.UTC().Format("2006-01-02"), short, name)
}
