package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/gatorguide/gatorguide/internal/storage"
)

// FileKind names the document slots a profile can hold.
type FileKind string

const (
	FileResume     FileKind = "resume"
	FileTranscript FileKind = "transcript"
)

// StoredFile is the reference kept for an uploaded document.
type StoredFile struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// FileStore is the external document-storage boundary. Get returns nil with
// no error when nothing has been uploaded.
type FileStore interface {
	Upload(ctx context.Context, userID string, kind FileKind, filename string) (*StoredFile, error)
	Get(ctx context.Context, userID string, kind FileKind) (*StoredFile, error)
	Delete(ctx context.Context, userID string, kind FileKind) error
}

// KVFileStore keeps upload references in device storage under one key per
// user and kind, standing in for the hosted object store.
type KVFileStore struct {
	kv  storage.KV
	now func() time.Time
}

func NewKVFileStore(kv storage.KV) *KVFileStore {
	return &KVFileStore{kv: kv, now: func() time.Time { return time.Now().UTC() }}
}

func fileKey(userID string, kind FileKind) string {
	return fmt.Sprintf("%s:%s", kind, userID)
}

func (s *KVFileStore) Upload(ctx context.Context, userID string, kind FileKind, filename string) (*StoredFile, error) {
	if userID == "" {
		return nil, NewInvalidError("user id required")
	}
	if kind != FileResume && kind != FileTranscript {
		return nil, NewInvalidError("unknown file kind: " + string(kind))
	}
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	now := s.now()
	f := &StoredFile{
		Name:       fmt.Sprintf("%s_%d%s", kind, now.UnixMilli(), ext),
		UploadedAt: now,
	}
	f.URL = fmt.Sprintf("local://%ss/%s/%s", kind, userID, f.Name)

	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, fileKey(userID, kind), string(b)); err != nil {
		return nil, NewUnavailableError("store " + string(kind) + ": " + err.Error())
	}
	return f, nil
}

func (s *KVFileStore) Get(ctx context.Context, userID string, kind FileKind) (*StoredFile, error) {
	raw, ok, err := s.kv.Get(ctx, fileKey(userID, kind))
	if err != nil {
		return nil, NewUnavailableError("read " + string(kind) + ": " + err.Error())
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var f StoredFile
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, NewInvalidError("corrupt " + string(kind) + " record")
	}
	return &f, nil
}

func (s *KVFileStore) Delete(ctx context.Context, userID string, kind FileKind) error {
	if err := s.kv.Remove(ctx, fileKey(userID, kind)); err != nil {
		return NewUnavailableError("delete " + string(kind) + ": " + err.Error())
	}
	return nil
}

var _ FileStore = (*KVFileStore)(nil)
