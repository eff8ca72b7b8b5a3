package store

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

const fileExt = ".json"

// FileStore keeps each diagram in <dir>/<name>.json, in the same format
// the CLI reads and writes. Files written by hand are picked up as-is.
type FileStore struct {
	dir string
}

// NewFileStore opens (and creates) a directory store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store: no directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrapBackend(BackendFile, "open", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Put(ctx context.Context, name string, records []document.Record) (err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendFile, "put", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := document.WriteRecords(&buf, records, document.FormatJSON); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return wrapBackend(BackendFile, "put", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return wrapBackend(BackendFile, "put", err)
	}
	if err := tmp.Close(); err != nil {
		return wrapBackend(BackendFile, "put", err)
	}
	return wrapBackend(BackendFile, "put", os.Rename(tmp.Name(), s.path(name)))
}

func (s *FileStore) Get(ctx context.Context, name string) (records []document.Record, err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendFile, "get", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	return s.read(name)
}

func (s *FileStore) read(name string) ([]document.Record, error) {
	f, err := os.Open(s.path(name))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, wrapBackend(BackendFile, "get", err)
	}
	defer f.Close()
	return document.ReadRecords(f, document.FormatJSON)
}

// List reads every file to count its elements. Files that do not parse
// are listed with zero elements.
func (s *FileStore) List(ctx context.Context) (infos []Info, err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendFile, "list", "", start, err) }()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, wrapBackend(BackendFile, "list", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		if errors.ValidateName(name) != nil {
			continue
		}
		info := Info{Name: name}
		if fi, err := e.Info(); err == nil {
			info.UpdatedAt = fi.ModTime().UTC()
		}
		if records, err := s.read(name); err == nil {
			info.Elements = countRecords(records)
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendFile, "delete", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	err = os.Remove(s.path(name))
	if stderrors.Is(err, fs.ErrNotExist) {
		return notFound(name)
	}
	return wrapBackend(BackendFile, "delete", err)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

var _ Store = (*FileStore)(nil)
