package run

import (
	"encoding/json"
	"os"

	"prismaflow/domain/core"
	"prismaflow/domain/review"
)

// Manifest records what a run produced and from which configuration.
// It is the reproducibility log: re-running the same config hash must
// yield byte-identical artifacts.
type Manifest struct {
	RunID      core.RunID      `json:"run_id"`
	ConfigHash core.ConfigHash `json:"config_hash"`
	Config     review.Config   `json:"config"`
	Artifacts  []Artifact      `json:"artifacts"`
	CreatedAt  core.Timestamp  `json:"created_at"`
}

// Artifact is one written output file
type Artifact struct {
	Kind string `json:"kind"` // summary_csv, exclusions_csv, json, flowchart, xlsx, report_md, report_html
	Path string `json:"path"`
}

// NewManifest creates a manifest for a validated configuration
func NewManifest(cfg review.Config) *Manifest {
	return &Manifest{
		RunID:      core.RunID(core.NewID()),
		ConfigHash: cfg.Hash(),
		Config:     cfg,
		CreatedAt:  core.Now(),
	}
}

// Record appends a written artifact
func (m *Manifest) Record(kind, path string) {
	m.Artifacts = append(m.Artifacts, Artifact{Kind: kind, Path: path})
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if core.Hash(m.ConfigHash).IsEmpty() {
		return core.NewValidationError("run_manifest", "config_hash cannot be empty")
	}
	return nil
}

// Write saves the manifest as indented JSON
func (m *Manifest) Write(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
