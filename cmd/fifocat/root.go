package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	fifo "github.com/sushydev/byte_fifo_go"
	"github.com/sushydev/byte_fifo_go/internal/config"
	"github.com/sushydev/byte_fifo_go/internal/pump"
)

var _ pflag.Value = (*config.ByteSize)(nil)

type rootOptions struct {
	configPath string
	overrides  config.Config
	verbose    bool
	stats      bool
}

func newRootCmd() *cobra.Command {
	opts := rootOptions{overrides: config.Default()}

	cmd := &cobra.Command{
		Use:   "fifocat",
		Short: "Copy stdin to stdout through a bounded ring buffer",
		Long: `Copy stdin to stdout through a bounded ring buffer.

Input is read in chunks and staged in the buffer. When a chunk does not fit,
the buffer is either grown (--grow, up to --max-capacity) or flushed to
stdout. Sizes accept human units such as 512, 64KiB or 1MB.

Example:
  fifocat --capacity 16KiB --grow --max-capacity 1MiB --stats < in > out
  fifocat --config fifocat.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}

			return run(cmd, cfg, opts.stats)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.Var(&opts.overrides.Capacity, "capacity", "initial buffer capacity")
	flags.Var(&opts.overrides.MaxCapacity, "max-capacity", "largest capacity --grow may reach")
	flags.Var(&opts.overrides.ChunkSize, "chunk", "bytes read from stdin at a time")
	flags.BoolVar(&opts.overrides.Grow, "grow", false, "grow the buffer instead of flushing it when full")
	flags.StringVar(&opts.overrides.LogLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "shorthand for --log-level debug")
	flags.BoolVar(&opts.stats, "stats", false, "print a transfer summary to stderr")

	return cmd
}

// resolveConfig layers explicitly set flags over the config file, or over the
// defaults when no file is given.
func resolveConfig(flags *pflag.FlagSet, opts rootOptions) (config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if flags.Changed("capacity") {
		cfg.Capacity = opts.overrides.Capacity
	}
	if flags.Changed("max-capacity") {
		cfg.MaxCapacity = opts.overrides.MaxCapacity
	}
	if flags.Changed("chunk") {
		cfg.ChunkSize = opts.overrides.ChunkSize
	}
	if flags.Changed("grow") {
		cfg.Grow = opts.overrides.Grow
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.overrides.LogLevel
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func run(cmd *cobra.Command, cfg config.Config, printStats bool) error {
	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	buffer, err := fifo.NewLockingRingBuffer(int(cfg.Capacity), fifo.WithLogger(logger.Named("buffer")))
	if err != nil {
		return err
	}
	defer buffer.Close()

	pumpOpts := []pump.Option{
		pump.WithChunkSize(int(cfg.ChunkSize)),
		pump.WithLogger(logger.Named("pump")),
	}
	if cfg.Grow {
		pumpOpts = append(pumpOpts, pump.WithGrowth(cfg.EffectiveMaxCapacity()))
	}

	logger.Info("starting",
		zap.Stringer("capacity", cfg.Capacity),
		zap.Stringer("chunk", cfg.ChunkSize),
		zap.Bool("grow", cfg.Grow),
	)

	stats, err := pump.New(buffer, pumpOpts...).Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	if printStats {
		writeStats(cmd.ErrOrStderr(), stats)
	}

	return err
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		lvl,
	)

	return zap.New(core).Named("fifocat"), nil
}

func writeStats(w io.Writer, stats pump.Stats) {
	fmt.Fprintf(w, "in: %s, out: %s, peak: %s, capacity: %s, resizes: %d\n",
		humanize.IBytes(uint64(stats.BytesIn)),
		humanize.IBytes(uint64(stats.BytesOut)),
		humanize.IBytes(uint64(stats.PeakLength)),
		humanize.IBytes(uint64(stats.Capacity)),
		stats.Resizes,
	)
}
