package run

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"prismaflow/domain/review"
)

func TestNewManifest(t *testing.T) {
	cfg := review.DefaultConfig()
	m := NewManifest(cfg)

	if m.RunID == "" {
		t.Error("manifest must carry a run ID")
	}
	if m.ConfigHash == "" {
		t.Error("manifest must carry a config hash")
	}
	if m.ConfigHash != cfg.Hash() {
		t.Error("config hash must match the source configuration")
	}
	if m.CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("fresh manifest should validate: %v", err)
	}
}

func TestManifest_RecordAndWrite(t *testing.T) {
	m := NewManifest(review.DefaultConfig())
	m.Record("summary_csv", "out/prisma_summary.csv")
	m.Record("json", "out/prisma.json")

	if len(m.Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(m.Artifacts))
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := m.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	var decoded Manifest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if decoded.RunID != m.RunID {
		t.Errorf("round-tripped run ID %s != %s", decoded.RunID, m.RunID)
	}
	if decoded.Config.InitialRecords != 462 {
		t.Errorf("config echo lost: initial records %d", decoded.Config.InitialRecords)
	}
}

func TestManifest_DistinctRunIDs(t *testing.T) {
	a := NewManifest(review.DefaultConfig())
	b := NewManifest(review.DefaultConfig())
	if a.RunID == b.RunID {
		t.Error("each run must get a unique ID")
	}
	if a.ConfigHash != b.ConfigHash {
		t.Error("identical configs must share a hash")
	}
}
