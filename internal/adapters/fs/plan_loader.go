package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/lspdeploy/internal/domain"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// PlanLoaderAdapter reads deployment plans from YAML (or JSON) files
type PlanLoaderAdapter struct{}

// NewPlanLoaderAdapter creates a new plan file loader
func NewPlanLoaderAdapter() *PlanLoaderAdapter {
	return &PlanLoaderAdapter{}
}

// LoadPlan parses the plan at path. ${VAR} references are expanded from the
// environment and unknown keys are rejected.
func (l *PlanLoaderAdapter) LoadPlan(_ context.Context, path string) (*domain.PlanRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var req domain.PlanRequest
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan file %s is empty", path)
		}
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, err)
	}

	if req.Deployment == nil && !req.IsLinked() {
		return nil, fmt.Errorf("plan file %s: needs either deployment or primary/secondary", path)
	}
	if req.Deployment != nil && req.IsLinked() {
		return nil, fmt.Errorf("plan file %s: deployment and primary/secondary are mutually exclusive", path)
	}

	return &req, nil
}

// Ensure PlanLoaderAdapter implements PlanLoader
var _ usecase.PlanLoader = (*PlanLoaderAdapter)(nil)
