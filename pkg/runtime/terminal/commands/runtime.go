package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/config"
	sinks "github.com/softservesoftware/stig-bee/pkg/services/export"
	"github.com/softservesoftware/stig-bee/pkg/services/normalize"
	"github.com/softservesoftware/stig-bee/pkg/services/review"
)

// Runtime is filled in by the root command before any subcommand runs.
type Runtime struct {
	Config *config.Config
	Sinks  sinks.Registry
}

func (rt *Runtime) profiles(path string) (config.Registry, error) {
	if path == "" && rt.Config != nil {
		path = rt.Config.Profiles.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no asset profile file: set --profiles or profiles.path")
	}
	return config.NewRegistry(path)
}

func loadAssessment(ctx context.Context, path string) (*domain.Assessment, error) {
	if err := review.ValidateUpload(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	a, err := normalize.NormalizeBytes(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := review.ValidateFormat(path, a); err != nil {
		return nil, err
	}
	if a.FileName == "" {
		a.FileName = filepath.Base(path)
	}
	return a, nil
}
