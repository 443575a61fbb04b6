package splithttp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// stubDoer satisfies utils.HTTPDoer with a canned response, no network.
type stubDoer struct {
	resp *http.Response
	err  error
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) { return s.resp, s.err }
func (s *stubDoer) SetHeader(key, value string)                  {}

func TestFetchChunk(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 251)
	}
	server := newRangeServer(t, data)
	partPath := filepath.Join(t.TempDir(), "file.bin.part2")

	chunk := Chunk{Index: 2, StartByte: 1024, EndByte: 2047}
	if err := FetchChunk(server.URL, chunk, partPath, 128, testClient(), nil); err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	got, err := os.ReadFile(partPath)
	if err != nil {
		t.Fatalf("reading part: %v", err)
	}
	if !bytes.Equal(got, data[1024:2048]) {
		t.Error("part bytes don't match the requested range")
	}
	if int64(len(got)) != chunk.Length() {
		t.Errorf("part length %d, want %d", len(got), chunk.Length())
	}
}

func TestFetchChunkEmptyRange(t *testing.T) {
	// No server at all: an empty range must not hit the network
	partPath := filepath.Join(t.TempDir(), "empty.bin.part1")
	chunk := Chunk{Index: 1, StartByte: 0, EndByte: -1}
	if err := FetchChunk("http://127.0.0.1:0/unreachable", chunk, partPath, 64, testClient(), nil); err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	info, err := os.Stat(partPath)
	if err != nil {
		t.Fatalf("stat part: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty part, got %d bytes", info.Size())
	}
}

func TestFetchChunkRejectsFullResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // ignores the Range header
		w.Write([]byte("full body"))
	}))
	defer server.Close()

	partPath := filepath.Join(t.TempDir(), "file.bin.part1")
	chunk := Chunk{Index: 1, StartByte: 0, EndByte: 4}
	if err := FetchChunk(server.URL, chunk, partPath, 64, testClient(), nil); err == nil {
		t.Fatal("expected error for non-206 response")
	}
	if _, err := os.Stat(partPath); !os.IsNotExist(err) {
		t.Error("failed fetch must remove its partial part file")
	}
}

func TestFetchChunkShortBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Claims the range but serves fewer bytes than requested
		w.Header().Set("Content-Range", "bytes 0-99/1000")
		w.Header().Set("Content-Length", "10")
		w.WriteHeader(http.StatusPartialContent)
		fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	partPath := filepath.Join(t.TempDir(), "file.bin.part1")
	chunk := Chunk{Index: 1, StartByte: 0, EndByte: 99}
	if err := FetchChunk(server.URL, chunk, partPath, 64, testClient(), nil); err == nil {
		t.Fatal("expected size mismatch error for truncated body")
	}
	if _, err := os.Stat(partPath); !os.IsNotExist(err) {
		t.Error("failed fetch must remove its partial part file")
	}
}

func TestFetchChunkAcceptsAnyDoer(t *testing.T) {
	body := []byte("0123456789")
	resp := &http.Response{
		StatusCode: http.StatusPartialContent,
		Header:     http.Header{"Content-Range": []string{"bytes 0-9/100"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
	partPath := filepath.Join(t.TempDir(), "file.bin.part1")
	chunk := Chunk{Index: 1, StartByte: 0, EndByte: 9}
	if err := FetchChunk("http://example.com/file.bin", chunk, partPath, 4, &stubDoer{resp: resp}, nil); err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	got, _ := os.ReadFile(partPath)
	if !bytes.Equal(got, body) {
		t.Errorf("part bytes %q, want %q", got, body)
	}
}

func TestFetchChunkProgressReporting(t *testing.T) {
	data := make([]byte, 1000)
	server := newRangeServer(t, data)
	partPath := filepath.Join(t.TempDir(), "file.bin.part1")

	progressCh := make(chan int64, 100)
	chunk := Chunk{Index: 1, StartByte: 0, EndByte: 999}
	if err := FetchChunk(server.URL, chunk, partPath, 64, testClient(), progressCh); err != nil {
		t.Fatalf("FetchChunk: %v", err)
	}
	close(progressCh)
	var total int64
	for n := range progressCh {
		total += n
	}
	if total != 1000 {
		t.Errorf("progress reported %d bytes, want 1000", total)
	}
}
