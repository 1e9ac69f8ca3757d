package mpreq

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/J1407B-K/mpstream/multipart"
)

func TestFromHTTPRequest(t *testing.T) {
	body := "--xyz\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nhello\r\n--xyz--"
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	src, headers := FromHTTPRequest(req)
	if got := headers.Get("Content-Type"); got != "multipart/form-data; boundary=xyz" {
		t.Fatalf("headers.Get(Content-Type) = %q", got)
	}

	var collected []byte
	ctx := context.Background()
	for {
		chunk, err := src.Next(ctx)
		collected = append(collected, chunk...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if string(collected) != body {
		t.Fatalf("collected body = %q, want %q", collected, body)
	}
}

func TestParseHTTPRequest(t *testing.T) {
	body := "--xyz\r\nContent-Disposition: form-data; name=\"f\"\r\n\r\nhello\r\n--xyz--"
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	session, err := ParseHTTPRequest(req)
	if err != nil {
		t.Fatalf("ParseHTTPRequest: %v", err)
	}
	ctx := context.Background()
	part, err := session.Next(ctx)
	if err != nil {
		t.Fatalf("session.Next: %v", err)
	}
	if part.Name() != "f" {
		t.Fatalf("Name() = %q, want f", part.Name())
	}
	got, err := part.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("Bytes() = %q, want hello", got)
	}
}

func TestParseHTTPRequestNotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	_, err := ParseHTTPRequest(req)
	if !multipart.IsNotMultipart(err) {
		t.Fatalf("expected NotMultipart, got %v", err)
	}
}

func TestFromGNetConn(t *testing.T) {
	src := FromGNetConn([]byte("abc"))
	ctx := context.Background()

	chunk, err := src.Next(ctx)
	if err != io.EOF || string(chunk) != "abc" {
		t.Fatalf("first Next() = (%q, %v), want (abc, io.EOF)", chunk, err)
	}

	chunk, err = src.Next(ctx)
	if err != io.EOF || len(chunk) != 0 {
		t.Fatalf("second Next() = (%q, %v), want (\"\", io.EOF)", chunk, err)
	}
}
