package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/panjf2000/ants/v2"
)

func BenchmarkHandleRequest_SingleField(b *testing.B) {
	body := "--xyz\r\nContent-Disposition: form-data; name=\"id\"\r\n\r\n12345\r\n--xyz--"

	pool, err := ants.NewPool(4)
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Release()
	server := newUploadServer(zap.NewNop(), pool, b.TempDir())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		status, _, _ := server.handleRequest(req)
		if status != http.StatusOK {
			b.Fatalf("unexpected status: %d", status)
		}
	}
}

func BenchmarkHandleRequest_FileUpload(b *testing.B) {
	payload := strings.Repeat("x", 4096)
	body := "--xyz\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"a.bin\"\r\n" +
		"Content-Type: application/octet-stream\r\n\r\n" +
		payload + "\r\n--xyz--"

	pool, err := ants.NewPool(4)
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Release()
	server := newUploadServer(zap.NewNop(), pool, b.TempDir())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(body))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		status, _, _ := server.handleRequest(req)
		if status != http.StatusOK {
			b.Fatalf("unexpected status: %d", status)
		}
	}
}
