// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/mangaonline/internal/platform/apperr"
	"github.com/taibuivan/mangaonline/internal/platform/metrics"
	"github.com/taibuivan/mangaonline/pkg/uuid"
)

const bytesPerMB = 1024.0 * 1024.0

// ErrNotFound is returned when a stored file does not exist.
var ErrNotFound = apperr.NotFound("File")

// # Store

// Store writes and reads assets below a root directory.
//
// Names are unique per upload, so concurrent writers never target the same path
// and the store needs no locking.
type Store struct {
	root     string
	maxBytes int64
	logger   *slog.Logger
}

// NewStore constructs a [Store] rooted at root that rejects uploads above maxBytes.
func NewStore(root string, maxBytes int64, logger *slog.Logger) *Store {
	return &Store{
		root:     root,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// MaxBytes returns the upload ceiling.
func (store *Store) MaxBytes() int64 {
	return store.maxBytes
}

/*
Store validates and writes an upload.

Parameters:
  - context: context.Context
  - source: io.Reader (file content)
  - size: int64 (declared size in bytes)
  - originalName: string (used for its extension only)
  - kind: Kind (routing rules)

Returns:
  - string: The generated name to reference the file by
  - error: ValidationError on size/type violations, Internal on I/O failures
*/
func (store *Store) Store(context context.Context, source io.Reader, size int64, originalName string, kind Kind) (string, error) {
	if size <= 0 {
		return "", apperr.ValidationError("File not found or empty")
	}
	if size > store.maxBytes {
		return "", apperr.ValidationError(fmt.Sprintf("File size %.2fMB exceeds limit of %.0fMB",
			float64(size)/bytesPerMB, float64(store.maxBytes)/bytesPerMB))
	}

	ext := Extension(originalName)
	folder, ok := folderFor(kind, originalName)
	if !ok {
		return "", apperr.ValidationError(fmt.Sprintf("Unsupported file type: %s", ext))
	}

	directory := filepath.Join(store.root, filepath.FromSlash(string(folder)))
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", apperr.Internal(fmt.Errorf("asset: failed to create directory: %w", err))
	}

	name := uuid.New() + ext
	path := filepath.Join(directory, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("asset: failed to create file: %w", err))
	}

	// Read one byte past the ceiling so an understated size is still caught.
	written, copyErr := io.Copy(file, io.LimitReader(source, store.maxBytes+1))
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", apperr.Internal(fmt.Errorf("asset: failed to write file: %w", copyErr))
	case closeErr != nil:
		_ = os.Remove(path)
		return "", apperr.Internal(fmt.Errorf("asset: failed to close file: %w", closeErr))
	case written > store.maxBytes:
		_ = os.Remove(path)
		return "", apperr.ValidationError(fmt.Sprintf("File exceeds limit of %.0fMB", float64(store.maxBytes)/bytesPerMB))
	case written == 0:
		_ = os.Remove(path)
		return "", apperr.ValidationError("File not found or empty")
	}

	metrics.AssetBytesStoredTotal.WithLabelValues(string(kind)).Add(float64(written))
	store.logger.InfoContext(context, "asset_stored",
		slog.String("name", name),
		slog.String("folder", string(folder)),
		slog.Int64("bytes", written),
	)

	return name, nil
}

/*
Retrieve reads a stored file from folder.

Returns:
  - []byte: File content
  - string: Content type derived from the extension
  - error: ErrNotFound if the file is absent or the name is not a plain file name
*/
func (store *Store) Retrieve(folder Folder, name string) ([]byte, string, error) {
	path, ok := store.resolve(folder, name)
	if !ok {
		return nil, "", ErrNotFound
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", apperr.Internal(fmt.Errorf("asset: failed to read file: %w", err))
	}

	return payload, ContentType(name), nil
}

// Exists reports whether name is present in folder.
func (store *Store) Exists(folder Folder, name string) bool {
	path, ok := store.resolve(folder, name)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

/*
Replace stores a new upload and then removes oldName.

The old file is deleted only after the new one is written and only if it
exists. A failed delete leaves an orphan and is logged, not returned.
*/
func (store *Store) Replace(context context.Context, source io.Reader, size int64, originalName string, kind Kind, oldName string) (string, error) {
	name, err := store.Store(context, source, size, originalName, kind)
	if err != nil {
		return "", err
	}

	if oldName == "" {
		return name, nil
	}

	folder, ok := folderFor(kind, oldName)
	if !ok || !store.Exists(folder, oldName) {
		return name, nil
	}

	path, _ := store.resolve(folder, oldName)
	if err := os.Remove(path); err != nil {
		store.logger.WarnContext(context, "asset_replace_cleanup_failed",
			slog.String("name", oldName),
			slog.String("error", err.Error()),
		)
	}

	return name, nil
}

// resolve maps a stored name to its path. Names carrying separators or dot
// segments are rejected.
func (store *Store) resolve(folder Folder, name string) (string, bool) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", false
	}
	return filepath.Join(store.root, filepath.FromSlash(string(folder)), name), true
}
