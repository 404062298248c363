package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

const shipmentsCSV = "Weight,Zone,Paid,Destination ZIP\n2,3,15.00,10001\n12,,30.50,94105\n"

// run executes the CLI with a profile isolated in a temp dir.
func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	return runWithConfig(t, cfg, args...)
}

func runWithConfig(t *testing.T, cfg string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfg}, args...))

	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(&errOut, err)
		return out.String(), errOut.String(), 1
	}
	return out.String(), errOut.String(), 0
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shipments.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyze_OfflineTable(t *testing.T) {
	path := writeCSV(t, shipmentsCSV)

	out, errOut, code := run(t, "analyze", path, "--weight", "Weight", "--rate", "Paid", "--zone", "Zone", "--dest-zip", "Destination ZIP", "--offline")
	if code != 0 {
		t.Fatalf("exit %d, stderr %s", code, errOut)
	}
	if !strings.Contains(out, "FINAL") || !strings.Contains(out, "10001") {
		t.Errorf("table output missing columns:\n%s", out)
	}
	if !strings.Contains(out, "2 shipments") {
		t.Errorf("summary missing:\n%s", out)
	}
	if !strings.Contains(errOut, core.FallbackWarning) {
		t.Errorf("stderr missing fallback warning: %q", errOut)
	}
}

func TestAnalyze_JSONFromEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Shipments []json.RawMessage `json:"shipments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		results := make([]map[string]any, len(req.Shipments))
		for i := range results {
			results[i] = map[string]any{"rowIndex": i + 1, "final_rate": 9.5}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": results,
			"summary": map[string]any{"count": len(results), "avg_final": 9.5, "min_final": 9.5, "max_final": 9.5},
		})
	}))
	defer srv.Close()

	path := writeCSV(t, shipmentsCSV)
	out, errOut, code := run(t, "analyze", path, "--weight", "Weight", "--rate", "Paid", "--engine-url", srv.URL, "--json")
	if code != 0 {
		t.Fatalf("exit %d, stderr %s", code, errOut)
	}

	var resp core.AnalysisResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if resp.Warning != "" {
		t.Errorf("warning = %q, want none", resp.Warning)
	}
	if resp.Summary.Count != 2 || len(resp.Results) != 2 || resp.Results[0].FinalRate != 9.5 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	path := writeCSV(t, shipmentsCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "unknown column",
			args: []string{"analyze", path, "--weight", "Weight", "--rate", "Cost", "--offline"},
			want: "MAP001",
		},
		{
			name: "negative fuel",
			args: []string{"analyze", path, "--weight", "Weight", "--rate", "Paid", "--fuel=-0.5", "--offline"},
			want: "SET001",
		},
		{
			name: "header only",
			args: []string{"analyze", writeCSV(t, "Weight,Paid\n"), "--weight", "Weight", "--rate", "Paid", "--offline"},
			want: "FILE005",
		},
		{
			name: "missing required flag",
			args: []string{"analyze", path, "--weight", "Weight"},
			want: `required flag(s) "rate" not set`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := run(t, tt.args...)
			if code == 0 {
				t.Fatal("expected failure")
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr %q missing %q", errOut, tt.want)
			}
		})
	}
}

func TestColumns(t *testing.T) {
	path := writeCSV(t, shipmentsCSV)

	out, errOut, code := run(t, "columns", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr %s", code, errOut)
	}
	for _, want := range []string{"2 records", "4 columns", "Destination ZIP", "carrier_rate", "Paid", "orig_zip", "(none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, errOut, code := runWithConfig(t, cfg, "config", "init")
	if code != 0 {
		t.Fatalf("init exit %d, stderr %s", code, errOut)
	}
	if !strings.Contains(out, cfg) {
		t.Errorf("init output = %q", out)
	}

	if _, errOut, code := runWithConfig(t, cfg, "config", "init"); code == 0 || !strings.Contains(errOut, "already exists") {
		t.Errorf("second init: exit %d, stderr %q", code, errOut)
	}
	if _, errOut, code := runWithConfig(t, cfg, "config", "init", "--force"); code != 0 {
		t.Errorf("forced init: exit %d, stderr %q", code, errOut)
	}

	out, errOut, code = runWithConfig(t, cfg, "config", "show")
	if code != 0 {
		t.Fatalf("show exit %d, stderr %s", code, errOut)
	}
	for _, want := range []string{"engine_url: http://localhost:8001", "origin_zip: \"46307\"", "dim_divisor: 139"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}
