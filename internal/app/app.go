// Package app builds the runtime shared by every clickwatch command.
package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/clickwatch/internal/common"
	"github.com/dtnitsch/clickwatch/models"
	"github.com/dtnitsch/clickwatch/pkg/aggregator"
	"github.com/dtnitsch/clickwatch/pkg/db"
	"github.com/dtnitsch/clickwatch/pkg/fetcher"
	"github.com/dtnitsch/clickwatch/pkg/storage"
	"github.com/dtnitsch/clickwatch/pkg/tracker"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Exit codes returned to the shell.
const (
	ExitNotFound = 1
	ExitFailure  = 2
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Runtime is everything a command needs, built once from flags and config.
type Runtime struct {
	Config  models.Config
	Logger  *slog.Logger
	Tracker *tracker.Tracker
	Audit   *db.DB // nil unless audit_db is configured
}

// NewLogger builds the JSON stderr logger selected by --quiet and --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// Load reads configuration and wires fetcher, audit log, aggregator and tracker.
// Failures are returned as cli exit errors.
func Load(c *cli.Context) (*Runtime, error) {
	logger := NewLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to load config: %v", err), ExitFailure)
	}
	return Build(cfg, logger)
}

// Build wires a Runtime from an already loaded configuration.
func Build(cfg models.Config, logger *slog.Logger) (*Runtime, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("invalid timezone: %v", err), ExitFailure)
	}

	rt := &Runtime{Config: cfg, Logger: logger}

	opts := []fetcher.Option{fetcher.WithLogger(logger)}
	if cfg.AuditDB != "" {
		database, err := db.Open(cfg.AuditDB)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("failed to open audit database: %v", err), ExitFailure)
		}
		rt.Audit = database
		opts = append(opts, fetcher.WithRecorder(database))
		logger.Debug("Fetch audit enabled", "path", database.Path())
	}
	f := fetcher.FromConfig(cfg.Fetch, opts...)

	agg := aggregator.New(cfg.Sources, f, logger)
	rt.Tracker = tracker.New(agg, f, loc, tracker.WithLogger(logger))
	return rt, nil
}

// Close releases the audit database, if one is open.
func (r *Runtime) Close() error {
	if r.Audit == nil {
		return nil
	}
	return r.Audit.Close()
}

// Write renders v in the format chosen by --format. Text output prints lines, split
// into blank-line separated chunks when --chunk is set. With --output the result goes
// to that file instead of w; an existing file is only replaced with --force.
func Write(c *cli.Context, w io.Writer, v any, lines []string) error {
	return WriteTo(w, OutputOptions{
		Format: c.String("format"),
		Chunk:  c.Bool("chunk"),
		Path:   c.String("output"),
		Force:  c.Bool("force"),
	}, v, lines)
}

// OutputOptions are the rendering flags shared by every command.
type OutputOptions struct {
	Format string
	Chunk  bool
	Path   string
	Force  bool
}

// WriteTo is Write without a cli context.
func WriteTo(w io.Writer, opts OutputOptions, v any, lines []string) error {
	if opts.Path == "" {
		return Render(w, opts.Format, opts.Chunk, v, lines)
	}
	if !opts.Force && storage.HasFile(opts.Path) {
		return cli.Exit(fmt.Sprintf("%s already exists (use --force to overwrite)", opts.Path), ExitFailure)
	}

	var buf bytes.Buffer
	if err := Render(&buf, opts.Format, opts.Chunk, v, lines); err != nil {
		return err
	}
	if err := storage.SaveFile(opts.Path, buf.Bytes()); err != nil {
		return cli.Exit(fmt.Sprintf("failed to write %s: %v", opts.Path, err), ExitFailure)
	}
	return nil
}

// Render is Write without a cli context.
func Render(w io.Writer, format string, chunk bool, v any, lines []string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		limit := 0
		if chunk {
			limit = common.MessageLimit
		}
		chunks := common.ChunkLines(lines, limit)
		if len(chunks) == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, strings.Join(chunks, "\n\n"))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		yamlBytes, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = w.Write(yamlBytes)
		return err
	default:
		return cli.Exit(fmt.Sprintf("unknown format %q (want text, json or yaml)", format), ExitFailure)
	}
}
