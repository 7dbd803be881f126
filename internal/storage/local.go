package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const metaSuffix = ".meta"

// LocalArchive implements Archive on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates basePath if needed
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", basePath, err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

func (a *LocalArchive) Put(ctx context.Context, key string, content []byte, meta Metadata) error {
	fullPath, err := a.keyToPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	if meta.Checksum == "" {
		meta.Checksum = Checksum(content)
	}
	meta.Size = int64(len(content))
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.WriteFile(fullPath+metaSuffix, metaBytes, 0644); err != nil {
		return fmt.Errorf("failed to write metadata for %s: %w", key, err)
	}
	return nil
}

func (a *LocalArchive) Get(ctx context.Context, key string) ([]byte, *Metadata, error) {
	fullPath, err := a.keyToPath(key)
	if err != nil {
		return nil, nil, err
	}

	content, err := os.ReadFile(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	meta := &Metadata{Checksum: Checksum(content), Size: int64(len(content))}
	if raw, err := os.ReadFile(fullPath + metaSuffix); err == nil {
		_ = json.Unmarshal(raw, meta)
	}
	return content, meta, nil
}

func (a *LocalArchive) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(a.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) {
			return nil
		}
		rel, err := filepath.Rel(a.basePath, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// keyToPath maps a key inside basePath and rejects keys that would escape it
func (a *LocalArchive) keyToPath(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return filepath.Join(a.basePath, clean), nil
}
