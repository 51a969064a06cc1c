package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeService is a classification service answering a fixed prediction.
type fakeService struct {
	*httptest.Server
	calls            atomic.Int32
	featuresExpected int
}

func newFakeService(t *testing.T, prediction, featuresExpected int) *fakeService {
	t.Helper()

	fs := &fakeService{featuresExpected: featuresExpected}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, _ *http.Request) {
		fs.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"prediction": %d}`, prediction)
	})
	mux.HandleFunc("GET /model_info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"model_status": "loaded", "features_expected": %d}`, fs.featuresExpected)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeService) predictURL() string {
	return fs.URL + "/predict"
}

// emptyConfig writes an empty configuration file so tests do not pick up
// a .phishguard from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".phishguard")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// executeCmd runs the root command with args and returns stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", emptyConfig(t)))

	err := cmd.Execute()
	return out.String(), err
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
