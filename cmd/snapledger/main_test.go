package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SNAPLEDGER_DB_PATH", filepath.Join(dir, "db", "ledger"))
	t.Setenv("SNAPLEDGER_SNAPSHOT_ROOT", filepath.Join(dir, "snapshots"))
	t.Setenv("SNAPLEDGER_CONFIG", "")
	t.Setenv("SNAPLEDGER_LOG_LEVEL", "error")
	t.Setenv("SNAPLEDGER_OTEL_ENABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	snapshotDir := filepath.Join(dir, "snapshots", "coinmarketcap")
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		t.Fatalf("create snapshot dir: %v", err)
	}
	blob := `{"gainers":[{"id":"abc-1","symbol":"ABC","price":1.23},{"id":"def-2","symbol":"DEF","price":"$4.50"}]}`
	if err := os.WriteFile(filepath.Join(snapshotDir, "20260301T000000Z.json"), []byte(blob), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandPrintsSummaryAndIsIdempotent(t *testing.T) {
	setupWorkspace(t)

	for i, wantInserted := range []float64{2, 0} {
		out, err := execute(t, "run", "--strict")
		if err != nil {
			t.Fatalf("run %d: %v\n%s", i, err, out)
		}
		var summary map[string]map[string]any
		if err := json.Unmarshal([]byte(out), &summary); err != nil {
			t.Fatalf("run %d: decode summary %q: %v", i, out, err)
		}
		cmc := summary["coinmarketcap"]
		if cmc["status"] != "ok" || cmc["inserted"] != wantInserted || cmc["rawCount"] != float64(2) {
			t.Fatalf("run %d: unexpected coinmarketcap summary %v", i, cmc)
		}
		if summary["twitter"]["status"] != "skipped-no-data" {
			t.Fatalf("run %d: expected twitter to be skipped, got %v", i, summary["twitter"])
		}
	}
}

func TestSourcesCommandListsRegistry(t *testing.T) {
	setupWorkspace(t)
	if out, err := execute(t, "run"); err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}

	out, err := execute(t, "sources")
	if err != nil {
		t.Fatalf("sources: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header and 6 sources, got %q", out)
	}
	var cmc string
	for _, line := range lines {
		if strings.HasPrefix(line, "coinmarketcap") {
			cmc = line
		}
	}
	fields := strings.Fields(cmc)
	if len(fields) != 5 || fields[1] != "keyed" || fields[2] != "market" || fields[3] != "gainers" || fields[4] != "2" {
		t.Fatalf("unexpected coinmarketcap row %q", cmc)
	}
}

func TestMigrateCommand(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v\n%s", err, out)
	}
	if strings.TrimSpace(out) != "sqlite schema is up to date" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunCommandRejectsBadConfig(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("SNAPLEDGER_DB_DRIVER", "oracle")

	if _, err := execute(t, "run"); err == nil {
		t.Fatal("expected invalid driver to fail")
	}
}
