package multipart

import (
	"context"
	"testing"
)

func TestChunkBufferPullAndDropPrefix(t *testing.T) {
	src := NewSliceSource([]byte("hello "), []byte("world"))
	buf := newChunkBuffer(src)
	defer buf.release()
	ctx := context.Background()

	ok, err := buf.Pull(ctx)
	if err != nil || !ok {
		t.Fatalf("Pull() = (%v, %v), want (true, nil)", ok, err)
	}
	if buf.Len() != len("hello ") {
		t.Fatalf("Len() = %d, want %d", buf.Len(), len("hello "))
	}

	ok, err = buf.Pull(ctx)
	if err != nil || !ok {
		t.Fatalf("Pull() = (%v, %v), want (true, nil)", ok, err)
	}
	if got := string(buf.Slice(0, buf.Len())); got != "hello world" {
		t.Fatalf("buffered bytes = %q, want %q", got, "hello world")
	}

	ok, err = buf.Pull(ctx)
	if err != nil || ok {
		t.Fatalf("Pull() after exhaustion = (%v, %v), want (false, nil)", ok, err)
	}

	buf.DropPrefix(6)
	if got := string(buf.Slice(0, buf.Len())); got != "world" {
		t.Fatalf("after DropPrefix(6), buffered bytes = %q, want %q", got, "world")
	}

	buf.DropPrefix(100)
	if buf.Len() != 0 {
		t.Fatalf("DropPrefix(100) on a 5-byte buffer should drain it, Len() = %d", buf.Len())
	}
}

func TestChunkBufferIndexOf(t *testing.T) {
	buf := newChunkBuffer(NewBytesSource([]byte("abc--boundarydef")))
	defer buf.release()
	buf.Pull(context.Background())

	if idx := buf.IndexOf([]byte("--boundary"), 0); idx != 3 {
		t.Fatalf("IndexOf = %d, want 3", idx)
	}
	if idx := buf.IndexOf([]byte("--boundary"), 4); idx != -1 {
		t.Fatalf("IndexOf with start past match = %d, want -1", idx)
	}
	if idx := buf.IndexOf([]byte("nope"), 0); idx != -1 {
		t.Fatalf("IndexOf for absent pattern = %d, want -1", idx)
	}
}

func TestChunkBufferCompactsAfterLargeDrop(t *testing.T) {
	big := make([]byte, compactionThreshold*3)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	buf := newChunkBuffer(NewBytesSource(big))
	defer buf.release()
	if _, err := buf.Pull(context.Background()); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	buf.DropPrefix(compactionThreshold * 2)
	if buf.head != 0 {
		t.Fatalf("expected compaction to reset head to 0, got %d", buf.head)
	}
	if buf.Len() != len(big)-compactionThreshold*2 {
		t.Fatalf("Len() = %d, want %d", buf.Len(), len(big)-compactionThreshold*2)
	}
}
