// Package main provides the named tagger CLI.
//
// It loads a run configuration, initiates a run directory, activates the
// named entry points and tags the given texts, logging the names and shapes
// of every intermediate tensor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/born-ml/named/internal/experiment"
	"github.com/born-ml/named/internal/named"
	"github.com/born-ml/named/internal/pipeline"
	"github.com/born-ml/named/internal/tokenizer"
)

const version = "v0.1.0-dev"

// texts collects repeated -text flags.
type texts []string

func (t *texts) String() string     { return strings.Join(*t, " | ") }
func (t *texts) Set(v string) error { *t = append(*t, v); return nil }

func main() {
	var inputs texts
	configPath := flag.String("config", "config.yaml", "Config file path")
	initConfig := flag.Bool("init", false, "Write the default config file and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")
	checkpoint := flag.String("checkpoint", "", "Load tagger weights from this checkpoint")
	flag.Var(&inputs, "text", "Text to tag (repeatable; remaining arguments are tagged too)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("named %s\n", version)
		return
	}

	if *initConfig {
		if err := experiment.InitConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config initialized at: %s\n", *configPath)
		return
	}

	inputs = append(inputs, flag.Args()...)
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] -text <text> [text...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *checkpoint, inputs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, checkpoint string, inputs []string) error {
	cfg, err := experiment.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	r, err := experiment.Initiate(ctx, cfg, experiment.Options{})
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	logger := r.Logger

	if err := named.Activate(); err != nil {
		return err
	}
	defer func() {
		if err := named.Deactivate(); err != nil {
			logger.Error("deactivate named ops", "error", err)
		}
	}()
	ops := named.Default().Current()

	m := cfg.Model
	tok, err := tokenizer.New(m.Encoding, m.VocabSize)
	if err != nil {
		logger.Warn("tokenizer unavailable, using hash tokenizer", "encoding", m.Encoding, "error", err)
	}
	logger.Info("tokenizer", "name", tok.Name(), "vocab_size", tok.VocabSize())

	tagger, err := pipeline.NewTagger(m, ops.Backend(), r.Rand, logger)
	if err != nil {
		return err
	}

	if checkpoint != "" {
		if err := tagger.Load(checkpoint); err != nil {
			return err
		}
		logger.Info("checkpoint loaded", "path", checkpoint)
	}

	batch, err := pipeline.NewBatch(ops, tok, inputs, m.VocabSize, tagger.MaxLength())
	if err != nil {
		return err
	}
	logger.Info("batch", "ids", batch.IDs, "lengths", batch.Lengths)

	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := tagger.Forward(ops, batch)
	if err != nil {
		return err
	}
	logger.Info("forward",
		slog.Any("logits", out.Logits),
		slog.Any("weights", out.Weights),
		slog.Any("sentence", out.Sentence))

	preds, err := tagger.Decode(out, batch)
	if err != nil {
		return err
	}
	for i, row := range preds {
		labels := make([]string, len(row))
		for j, p := range row {
			labels[j] = p.Label
		}
		logger.Info("tagged", "text", batch.Texts[i], "labels", labels)
	}

	return tagger.Save(filepath.Join(r.Dir, pipeline.CheckpointFileName), map[string]string{
		"run_id":    r.ID.String(),
		"commit_id": cfg.CommitID,
		"tokenizer": tok.Name(),
	})
}
