package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in-process with args and returns its output.
// Flag values are reset first since cobra keeps them between runs.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writeSample writes a small document with one experience and one project
func writeSample(t *testing.T, dir string) string {
	t.Helper()
	st := store.New()
	st.UpdatePersonalInfo(store.PersonalInfoPatch{
		Name:  store.Ptr("Ada Lovelace"),
		Email: store.Ptr("ada@example.com"),
		Title: store.Ptr("Analyst"),
	})
	_, err := st.AddExperience(types.Experience{Company: "Analytical Engines", Position: "Programmer"})
	require.NoError(t, err)
	_, err = st.AddProject(types.Project{Title: "Bernoulli", TechStack: []string{"Go"}})
	require.NoError(t, err)

	raw, err := st.ExportDocument()
	require.NoError(t, err)
	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func readSample(t *testing.T, path string) types.ResumeData {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc types.ResumeData
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

// proxyStub records requests per endpoint and answers with fixed bodies
type proxyStub struct {
	mu       sync.Mutex
	requests map[string][][]byte
	replies  map[string]any
}

func newProxyStub(t *testing.T, replies map[string]any) (*proxyStub, *httptest.Server) {
	t.Helper()
	p := &proxyStub{requests: map[string][][]byte{}, replies: replies}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)

		p.mu.Lock()
		p.requests[r.URL.Path] = append(p.requests[r.URL.Path], buf.Bytes())
		reply, ok := p.replies[r.URL.Path]
		p.mu.Unlock()

		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return p, srv
}

func (p *proxyStub) calls(path string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[path]
}
