package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/J1407B-K/mpstream/mpreq"
	"github.com/J1407B-K/mpstream/mpspool"
	"github.com/J1407B-K/mpstream/multipart"
)

const (
	defaultSpoolThreshold = 1 << 20 // 1 MiB stays in memory before spilling to disk
	defaultMaxFileSize    = 64 << 20
)

// uploadServer holds the demo's business logic: parse a multipart/* body,
// spool its file parts, fan out post-processing across a bounded worker
// pool, and summarize the result. gnetserver.go's event handler delegates
// all actual request handling to it; this server has exactly one route.
type uploadServer struct {
	log            *zap.Logger
	pool           *ants.Pool
	spoolDir       string
	spoolThreshold int64
	maxFileSize    int64
}

func newUploadServer(log *zap.Logger, pool *ants.Pool, spoolDir string) *uploadServer {
	return &uploadServer{
		log:            log,
		pool:           pool,
		spoolDir:       spoolDir,
		spoolThreshold: defaultSpoolThreshold,
		maxFileSize:    defaultMaxFileSize,
	}
}

type receivedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type receivedFile struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	SHA256   string `json:"sha256,omitempty"`

	spooled *mpspool.SpooledPart
}

type uploadSummary struct {
	Fields []receivedField `json:"fields"`
	Files  []receivedFile  `json:"files"`
}

// handleRequest parses req as a multipart upload, drains every part, and
// returns the HTTP status/content-type/body the caller should write back.
// It returns a fully-formed response rather than writing to an
// http.ResponseWriter directly, since gnetserver.go's OnTraffic already
// owns the connection write.
func (s *uploadServer) handleRequest(req *http.Request) (status int, contentType string, body []byte) {
	if req.Method != http.MethodPost {
		return http.StatusMethodNotAllowed, "text/plain; charset=utf-8", []byte("only POST is supported\n")
	}

	ct := req.Header.Get("Content-Type")
	if !multipart.IsMultipart(ct) {
		return http.StatusBadRequest, "text/plain; charset=utf-8", []byte("expected a multipart/* body\n")
	}

	src, headers := mpreq.FromHTTPRequest(req)
	session, err := multipart.Parse(headers, src, multipart.WithMaxFileSize(s.maxFileSize))
	if err != nil {
		s.log.Warn("rejecting request", zap.Error(err))
		return http.StatusBadRequest, "text/plain; charset=utf-8", []byte(err.Error() + "\n")
	}

	summary, files, err := s.drainParts(req.Context(), session)
	if err != nil {
		s.log.Warn("parse failed mid-stream", zap.Error(err))
		return statusForParseError(err), "text/plain; charset=utf-8", []byte(err.Error() + "\n")
	}
	defer func() {
		for _, f := range files {
			if f.spooled != nil {
				_ = f.spooled.Remove()
			}
		}
	}()

	if err := s.checksumFiles(files); err != nil {
		s.log.Error("post-processing failed", zap.Error(err))
		return http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("processing failed\n")
	}
	summary.Files = files

	out, err := json.Marshal(summary)
	if err != nil {
		return http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("encoding failed\n")
	}
	s.log.Info("upload processed",
		zap.Int("fields", len(summary.Fields)),
		zap.Int("files", len(summary.Files)))
	return http.StatusOK, "application/json; charset=utf-8", out
}

// drainParts sequentially reads every part of session, spooling files to
// disk and buffering plain fields in memory, honoring the single-active-
// part invariant the core Session enforces.
func (s *uploadServer) drainParts(ctx context.Context, session *multipart.Session) (*uploadSummary, []receivedFile, error) {
	summary := &uploadSummary{}
	var files []receivedFile

	err := session.ForEach(ctx, func(p *multipart.PartStream) error {
		if !p.IsFile() {
			val, err := p.Bytes()
			if err != nil {
				return err
			}
			summary.Fields = append(summary.Fields, receivedField{Name: p.Name(), Value: string(val)})
			return nil
		}
		sp, err := mpspool.SpoolToDisk(p, s.spoolDir, s.spoolThreshold)
		if err != nil {
			return err
		}
		files = append(files, receivedFile{
			Name:     p.Name(),
			Filename: p.Filename(),
			Size:     sp.Size(),
			spooled:  sp,
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return summary, files, nil
}

// checksumFiles fans SHA-256 computation for every spooled file out across
// the bounded ants worker pool, waiting for all of them via errgroup — the
// concurrent post-processing step named in the design's added
// concurrency section, kept strictly after every part has already been
// fully drained from the wire.
func (s *uploadServer) checksumFiles(files []receivedFile) error {
	if len(files) == 0 {
		return nil
	}
	g := new(errgroup.Group)
	for i := range files {
		f := &files[i]
		g.Go(func() error {
			done := make(chan error, 1)
			submitErr := s.pool.Submit(func() {
				done <- checksumSpooledPart(f)
			})
			if submitErr != nil {
				return submitErr
			}
			return <-done
		})
	}
	return g.Wait()
}

func checksumSpooledPart(f *receivedFile) error {
	r, err := f.spooled.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return err
	}
	f.SHA256 = hex.EncodeToString(h.Sum(nil))
	return nil
}

func statusForParseError(err error) int {
	switch {
	case multipart.IsPartTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case multipart.IsHeaderTooLarge(err):
		return http.StatusRequestHeaderFieldsTooLarge
	default:
		return http.StatusBadRequest
	}
}
