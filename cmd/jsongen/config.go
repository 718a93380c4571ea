package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"pkg.jsn.cam/jsongen/internal/pipeline"
	"pkg.jsn.cam/jsongen/pkg/grammar"
)

// Output formats accepted by --format.
const (
	formatLines   = "lines"
	formatMsgpack = "msgpack"
	formatBolt    = "bolt"
)

const (
	defaultTarget   = 100000
	defaultBoltPath = "corpus.db"
)

// fileConfig mirrors the TOML config file.
type fileConfig struct {
	Pipeline struct {
		Workers int    `toml:"workers"`
		Target  int    `toml:"target"`
		Grammar string `toml:"grammar"`
		Seed    uint64 `toml:"seed"`
		Buffer  int    `toml:"buffer"`
	} `toml:"pipeline"`
	Limits grammar.Limits `toml:"limits"`
	Output outputConfig   `toml:"output"`
}

type outputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// runConfig is everything one generate invocation needs.
type runConfig struct {
	Pipeline pipeline.Config
	Output   outputConfig
}

func defaultFileConfig() fileConfig {
	var fc fileConfig
	fc.Pipeline.Workers = runtime.NumCPU()
	fc.Pipeline.Target = defaultTarget
	fc.Pipeline.Grammar = grammar.DefaultGrammar
	fc.Limits = grammar.DefaultLimits
	fc.Output.Format = formatLines
	return fc
}

// loadConfigFile decodes path over fc, keeping fields the file leaves out.
func loadConfigFile(path string, fc *fileConfig) error {
	md, err := toml.DecodeFile(path, fc)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}
	return nil
}

// generateOptions holds the raw generate flags.
type generateOptions struct {
	configPath string
	workers    int
	target     int
	maxDepth   uint64
	maxRepeat  uint64
	grammar    string
	seed       uint64
	buffer     int
	out        string
	format     string
}

// resolve layers defaults, then the config file, then every flag the user
// set explicitly.
func (o generateOptions) resolve(changed func(name string) bool) (runConfig, error) {
	fc := defaultFileConfig()
	if o.configPath != "" {
		if err := loadConfigFile(o.configPath, &fc); err != nil {
			return runConfig{}, err
		}
	}

	if changed("workers") {
		fc.Pipeline.Workers = o.workers
	}
	if changed("target") {
		fc.Pipeline.Target = o.target
	}
	if changed("grammar") {
		fc.Pipeline.Grammar = o.grammar
	}
	if changed("seed") {
		fc.Pipeline.Seed = o.seed
	}
	if changed("buffer") {
		fc.Pipeline.Buffer = o.buffer
	}
	if changed("max-depth") {
		fc.Limits.MaxDepth = o.maxDepth
	}
	if changed("max-repeat") {
		fc.Limits.MaxRepeat = o.maxRepeat
	}
	if changed("out") {
		fc.Output.Path = o.out
	}
	if changed("format") {
		fc.Output.Format = o.format
	}

	out := outputConfig{
		Path:   strings.TrimSpace(fc.Output.Path),
		Format: strings.ToLower(strings.TrimSpace(fc.Output.Format)),
	}
	switch out.Format {
	case formatLines, formatMsgpack:
	case formatBolt:
		if out.Path == "" || out.Path == "-" {
			out.Path = defaultBoltPath
		}
	default:
		return runConfig{}, fmt.Errorf("unsupported format %q (expected lines|msgpack|bolt)", fc.Output.Format)
	}

	cfg := pipeline.Config{
		Workers:    fc.Pipeline.Workers,
		Target:     fc.Pipeline.Target,
		Limits:     fc.Limits,
		Grammar:    fc.Pipeline.Grammar,
		Seed:       fc.Pipeline.Seed,
		BufferSize: fc.Pipeline.Buffer,
	}
	if err := cfg.Validate(); err != nil {
		return runConfig{}, err
	}
	return runConfig{Pipeline: cfg, Output: out}, nil
}
