package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gatorguide/gatorguide/internal/storage"
)

func TestKVFileStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	fs := NewKVFileStore(storage.NewMemoryKV())
	fs.now = func() time.Time { return time.UnixMilli(1_700_000_000_000).UTC() }

	// Nothing uploaded yet.
	if f, err := fs.Get(ctx, "u1", FileResume); err != nil || f != nil {
		t.Fatalf("empty get: %v %v", f, err)
	}

	up, err := fs.Upload(ctx, "u1", FileResume, "my resume.pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if up.Name != "resume_1700000000000.pdf" {
		t.Fatalf("unexpected name %q", up.Name)
	}
	if !strings.HasPrefix(up.URL, "local://resumes/u1/") {
		t.Fatalf("unexpected url %q", up.URL)
	}

	got, err := fs.Get(ctx, "u1", FileResume)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Name != up.Name || !got.UploadedAt.Equal(up.UploadedAt) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, up)
	}

	// Separate slots per kind and per user.
	if f, _ := fs.Get(ctx, "u1", FileTranscript); f != nil {
		t.Fatal("transcript slot leaked from resume upload")
	}
	if f, _ := fs.Get(ctx, "u2", FileResume); f != nil {
		t.Fatal("user slots leaked")
	}

	if err := fs.Delete(ctx, "u1", FileResume); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f, _ := fs.Get(ctx, "u1", FileResume); f != nil {
		t.Fatal("file survived delete")
	}
}

func TestKVFileStoreValidation(t *testing.T) {
	ctx := context.Background()
	fs := NewKVFileStore(storage.NewMemoryKV())
	if _, err := fs.Upload(ctx, "", FileResume, "r.pdf"); err == nil {
		t.Fatal("empty user id accepted")
	}
	if _, err := fs.Upload(ctx, "u1", FileKind("photo"), "p.png"); err == nil {
		t.Fatal("unknown kind accepted")
	}
	// Extension defaults to .pdf.
	up, err := fs.Upload(ctx, "u1", FileTranscript, "transcript")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(up.Name, ".pdf") {
		t.Fatalf("default extension missing: %q", up.Name)
	}
}
