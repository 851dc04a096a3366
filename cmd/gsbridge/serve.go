package main

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gamestringer/gsbridge/internal/bridge"
	"github.com/gamestringer/gsbridge/internal/cleanup"
	"github.com/gamestringer/gsbridge/internal/language"
	"github.com/gamestringer/gsbridge/internal/logger"
	"github.com/gamestringer/gsbridge/internal/protocol"
	"github.com/gamestringer/gsbridge/internal/shmring"
)

// duration lets TOML config files write timeouts as "5s" or "500us".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// serveConfig is the TOML shape of a gsbridge.toml file. Every field has
// a flag counterpart; a changed flag wins over the file.
type serveConfig struct {
	Shm struct {
		Name           string   `toml:"name"`
		Slots          uint32   `toml:"slots"`
		RequestTimeout duration `toml:"request_timeout"`
		PollInterval   duration `toml:"poll_interval"`
	} `toml:"shm"`
	Dictionary struct {
		Source       string   `toml:"source"`
		Target       string   `toml:"target"`
		Files        []string `toml:"files"`
		Watch        bool     `toml:"watch"`
		CSVSourceCol int      `toml:"csv_source_col"`
		CSVTargetCol int      `toml:"csv_target_col"`
	} `toml:"dictionary"`
	Stats struct {
		Interval duration `toml:"interval"`
	} `toml:"stats"`
}

func defaultServeConfig() serveConfig {
	cfg := serveConfig{}
	cfg.Shm.Name = "gsbridge"
	cfg.Shm.Slots = protocol.MaxSlots
	cfg.Shm.RequestTimeout = duration{shmring.DefaultRequestTimeout}
	cfg.Shm.PollInterval = duration{shmring.DefaultPollInterval}
	cfg.Dictionary.Source = "en"
	cfg.Dictionary.Target = "it"
	cfg.Dictionary.CSVSourceCol = 0
	cfg.Dictionary.CSVTargetCol = 1
	cfg.Stats.Interval = duration{30 * time.Second}
	return cfg
}

type serveOptions struct {
	configPath     string
	shmName        string
	slots          uint32
	source         string
	target         string
	dicts          []string
	watch          bool
	csvSourceCol   int
	csvTargetCol   int
	requestTimeout time.Duration
	pollInterval   time.Duration
	statsInterval  time.Duration
	logFilePath    string
	debug          bool
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host a shared-memory translation ring until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &opts)
		},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addServeFlags(cmd, &opts)
	return cmd
}

func addServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&opts.shmName, "shm-name", "gsbridge", "Shared memory region name")
	cmd.Flags().Uint32Var(&opts.slots, "slots", protocol.MaxSlots, "Ring slot count (power of two)")
	cmd.Flags().StringVar(&opts.source, "source", "en", "Source language code")
	cmd.Flags().StringVar(&opts.target, "target", "it", "Target language code")
	cmd.Flags().StringArrayVar(&opts.dicts, "dict", nil, "Dictionary file to load (.json or .csv, repeatable)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Hot-reload dictionary files on change")
	cmd.Flags().IntVar(&opts.csvSourceCol, "csv-source-col", 0, "CSV column holding the original text")
	cmd.Flags().IntVar(&opts.csvTargetCol, "csv-target-col", 1, "CSV column holding the translation")
	cmd.Flags().DurationVar(&opts.requestTimeout, "request-timeout", shmring.DefaultRequestTimeout, "Age past which an unanswered slot is reclaimed")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", shmring.DefaultPollInterval, "Sleep between serve passes when the ring is idle")
	cmd.Flags().DurationVar(&opts.statsInterval, "stats-interval", 30*time.Second, "Interval between statistics log lines (0 disables)")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

// resolveServeConfig layers defaults, the TOML file, and changed flags.
func resolveServeConfig(cmd *cobra.Command, opts *serveOptions) (serveConfig, error) {
	cfg := defaultServeConfig()

	if opts.configPath != "" {
		meta, err := toml.DecodeFile(opts.configPath, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", opts.configPath, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("unknown key %q in config %s", undecoded[0].String(), opts.configPath)
		}
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "shm-name":
			cfg.Shm.Name = opts.shmName
		case "slots":
			cfg.Shm.Slots = opts.slots
		case "request-timeout":
			cfg.Shm.RequestTimeout = duration{opts.requestTimeout}
		case "poll-interval":
			cfg.Shm.PollInterval = duration{opts.pollInterval}
		case "source":
			cfg.Dictionary.Source = opts.source
		case "target":
			cfg.Dictionary.Target = opts.target
		case "dict":
			cfg.Dictionary.Files = opts.dicts
		case "watch":
			cfg.Dictionary.Watch = opts.watch
		case "csv-source-col":
			cfg.Dictionary.CSVSourceCol = opts.csvSourceCol
		case "csv-target-col":
			cfg.Dictionary.CSVTargetCol = opts.csvTargetCol
		case "stats-interval":
			cfg.Stats.Interval = duration{opts.statsInterval}
		}
	})

	if cfg.Shm.Name == "" {
		return cfg, fmt.Errorf("shared memory name is empty")
	}
	if cfg.Shm.Slots == 0 || cfg.Shm.Slots&(cfg.Shm.Slots-1) != 0 || cfg.Shm.Slots > protocol.MaxSlots {
		return cfg, fmt.Errorf("slot count must be a power of two up to %d, got %d", protocol.MaxSlots, cfg.Shm.Slots)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	if err := setupLogging(opts.debug, opts.logFilePath); err != nil {
		return err
	}

	cfg, err := resolveServeConfig(cmd, opts)
	if err != nil {
		return err
	}
	source, target, err := resolvePair(cfg.Dictionary.Source, cfg.Dictionary.Target)
	if err != nil {
		return err
	}

	b := bridge.New()
	b.SetActiveLanguages(source, target)
	if _, err := loadDictionaryFiles(b, cfg.Dictionary.Files, cfg.Dictionary.CSVSourceCol, cfg.Dictionary.CSVTargetCol); err != nil {
		return err
	}
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	if cfg.Dictionary.Watch && len(cfg.Dictionary.Files) > 0 {
		if err := b.Watch(cfg.Dictionary.Files...); err != nil {
			return fmt.Errorf("failed to watch dictionary files: %w", err)
		}
	}

	region, err := shmring.OpenShmRegion(cfg.Shm.Name, protocol.RegionSize(cfg.Shm.Slots), true)
	if err != nil {
		return err
	}
	cleanup.Register(region.Close)
	cleanup.Register(region.Unlink)

	if err := shmring.InitRegion(region, cfg.Shm.Slots); err != nil {
		return err
	}
	host, err := shmring.Attach(region, b, shmring.Config{
		RequestTimeout: cfg.Shm.RequestTimeout.Duration,
		PollInterval:   cfg.Shm.PollInterval.Duration,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if cfg.Stats.Interval.Duration > 0 {
		go logStatsLoop(ctx, b, cfg.Stats.Interval.Duration)
	}

	logger.Info("Translation bridge serving",
		"shm", cfg.Shm.Name, "slots", cfg.Shm.Slots, "pair", language.PairKey(source, target))
	if err := host.Serve(ctx); err != nil {
		return err
	}

	stats := b.GetStats()
	logger.Info("Translation bridge shut down",
		"requests", stats.TotalRequests, "hits", stats.CacheHits,
		"misses", stats.CacheMisses, "errors", stats.Errors)
	return nil
}

func logStatsLoop(ctx context.Context, b *bridge.Bridge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := b.GetStats()
			logger.Info("Bridge statistics",
				"requests", stats.TotalRequests, "hits", stats.CacheHits,
				"misses", stats.CacheMisses, "errors", stats.Errors,
				"avg_us", fmt.Sprintf("%.1f", stats.AvgResponseTimeUs),
				"uptime_s", stats.UptimeSeconds)
		}
	}
}
