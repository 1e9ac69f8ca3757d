package mpspool

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/J1407B-K/mpstream/multipart"
)

func partFromBody(t *testing.T, payload string) *multipart.PartStream {
	t.Helper()
	boundary := "xyz"
	body := "--" + boundary + "\r\n" +
		`Content-Disposition: form-data; name="f"` + "\r\n\r\n" +
		payload + "\r\n--" + boundary + "--"
	s, err := multipart.NewSession(multipart.NewBytesSource([]byte(body)), boundary)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	p, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return p
}

func TestSpoolToDiskStaysInMemoryUnderThreshold(t *testing.T) {
	p := partFromBody(t, "small payload")
	sp, err := SpoolToDisk(p, t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("SpoolToDisk: %v", err)
	}
	if sp.OnDisk() {
		t.Fatalf("expected part to stay in memory under threshold")
	}
	if sp.Size() != int64(len("small payload")) {
		t.Fatalf("Size() = %d, want %d", sp.Size(), len("small payload"))
	}

	r, err := sp.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "small payload" {
		t.Fatalf("Open() contents = %q", got)
	}
}

func TestSpoolToDiskSpillsPastThreshold(t *testing.T) {
	payload := strings.Repeat("x", 100)
	p := partFromBody(t, payload)
	dir := t.TempDir()
	sp, err := SpoolToDisk(p, dir, 10)
	if err != nil {
		t.Fatalf("SpoolToDisk: %v", err)
	}
	if !sp.OnDisk() {
		t.Fatalf("expected part to spill to disk past threshold")
	}
	if sp.Size() != int64(len(payload)) {
		t.Fatalf("Size() = %d, want %d", sp.Size(), len(payload))
	}

	r, err := sp.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != payload {
		t.Fatalf("Open() contents = %q, want %q", got, payload)
	}

	if err := sp.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp dir empty after Remove, got %v", entries)
	}
}

func TestSpoolToDiskRemoveIsIdempotent(t *testing.T) {
	p := partFromBody(t, strings.Repeat("y", 50))
	sp, err := SpoolToDisk(p, t.TempDir(), 5)
	if err != nil {
		t.Fatalf("SpoolToDisk: %v", err)
	}
	if err := sp.Remove(); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := sp.Remove(); err != nil {
		t.Fatalf("second Remove should be a no-op, got: %v", err)
	}
}
