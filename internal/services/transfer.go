package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gatorguide/gatorguide/internal/appdata"
)

const (
	exportApp     = "GatorGuide"
	exportVersion = "1.0.0"
)

// ExportDocument is the on-disk interchange format for the data
// export/import feature.
type ExportDocument struct {
	ExportedAt time.Time     `json:"exportedAt"`
	App        string        `json:"app"`
	Version    string        `json:"version"`
	Data       appdata.State `json:"data"`
	Theme      string        `json:"theme"`
}

// ExportResult carries the serialized document plus download metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TransferService produces export documents and applies imports. Import is
// destructive and therefore gated on an explicit confirmation flag.
type TransferService struct {
	store *appdata.Store
	now   func() time.Time
}

func NewTransferService(store *appdata.Store) *TransferService {
	return &TransferService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Export serializes the full current state into a dated document.
func (s *TransferService) Export(theme string) (*ExportResult, error) {
	if !s.store.IsHydrated() {
		return nil, NewNotHydratedError("export before hydration")
	}
	if theme == "" {
		theme = "system"
	}
	now := s.now()
	doc := ExportDocument{
		ExportedAt: now,
		App:        exportApp,
		Version:    exportVersion,
		Data:       s.store.Snapshot(),
		Theme:      theme,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    "gatorguide-export-" + now.Format("20060102") + ".json",
		ContentType: "application/json; charset=utf-8",
		Data:        b,
	}, nil
}

// importDocument mirrors ExportDocument with pointer fields so a malformed
// or truncated file is detected instead of silently zeroing state.
type importDocument struct {
	ExportedAt *time.Time       `json:"exportedAt"`
	App        string           `json:"app"`
	Version    string           `json:"version"`
	Data       *appdata.Restore `json:"data"`
	Theme      string           `json:"theme"`
}

// Import validates and applies an export document. The operation aborts
// without touching state on any validation failure, and refuses to run
// until the caller has confirmed the overwrite.
func (s *TransferService) Import(ctx context.Context, raw []byte, confirmed bool) error {
	if !confirmed {
		return NewInvalidError("import requires explicit confirmation")
	}
	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return NewInvalidError("malformed import file: " + err.Error())
	}
	if doc.Data == nil {
		return NewInvalidError("import file has no data field")
	}
	if doc.App != "" && !strings.EqualFold(doc.App, exportApp) {
		return NewInvalidError("import file belongs to another app: " + doc.App)
	}
	if err := s.store.RestoreData(ctx, *doc.Data); err != nil {
		return NewNotHydratedError(err.Error())
	}
	return nil
}
