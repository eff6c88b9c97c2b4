package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Files written into every run directory.
const (
	LogFileName    = "log"
	ConfigFileName = "config.yaml"
)

// DefaultRoot is the directory run directories are created under.
const DefaultRoot = "./log"

// Run is an initiated experiment run.
type Run struct {
	ID     uuid.UUID
	Config *Config
	Dir    string
	Logger *slog.Logger
	Rand   *rand.Rand

	logFile *os.File
}

// Options configures Initiate.
type Options struct {
	// Root replaces DefaultRoot when the config has no log_dir.
	Root string
	// RepoDir is where the commit id is looked up; the working directory when empty.
	RepoDir string
	// Stderr receives log output besides the run's log file; os.Stderr when nil.
	Stderr io.Writer
}

// Initiate prepares a run from cfg:
//   - fills cfg.CommitID from git HEAD if empty
//   - creates the run directory unless cfg.LogDir is set
//   - opens <dir>/log and a logger at cfg.LogLevel writing to it and stderr
//   - snapshots cfg to <dir>/config.yaml
//   - seeds the random source from cfg.RandomSeed
//
// The caller must Close the run.
func Initiate(ctx context.Context, cfg *Config, opts Options) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var commitErr error
	if cfg.CommitID == "" {
		cfg.CommitID, commitErr = HeadCommitID(ctx, opts.RepoDir)
	}

	dir := cfg.LogDir
	if dir == "" {
		root := opts.Root
		if root == "" {
			root = DefaultRoot
		}
		var err error
		if dir, err = CreateLogDir(root, cfg.RunName()); err != nil {
			return nil, err
		}
		cfg.LogDir = dir
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.Create(filepath.Join(dir, LogFileName)) //nolint:gosec // G304: path built from the run directory.
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger, err := NewLogger(cfg.LogLevel, stderr, logFile)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	if err := cfg.Save(filepath.Join(dir, ConfigFileName)); err != nil {
		_ = logFile.Close()
		return nil, err
	}

	run := &Run{
		ID:      uuid.New(),
		Config:  cfg,
		Dir:     dir,
		Logger:  logger,
		Rand:    rand.New(rand.NewSource(cfg.RandomSeed)), //nolint:gosec // reproducible experiment randomness
		logFile: logFile,
	}

	if commitErr != nil {
		logger.Warn("commit id unavailable", "error", commitErr)
	}
	logger.Info("run initiated",
		"run_id", run.ID.String(),
		"log_dir", dir,
		"commit_id", cfg.CommitID,
		"random_seed", cfg.RandomSeed,
	)

	return run, nil
}

// Close flushes and closes the run's log file.
func (r *Run) Close() error {
	if r.logFile == nil {
		return nil
	}
	err := r.logFile.Close()
	r.logFile = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
