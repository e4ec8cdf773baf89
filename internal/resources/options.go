package resources

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the unmarshaled shape of an optional project-level
// `spice.yaml`, grounded on the teacher's structured-spec-file use of
// yaml.v3 (SPEC_FULL.md §B.3): non-CLI project settings that a CLI flag
// can still override.
type Config struct {
	TargetTriple string `yaml:"targetTriple"`
	StdDir       string `yaml:"stdDir"`
	CacheDir     string `yaml:"cacheDir"`
	Jobs         int    `yaml:"jobs"`
}

// LoadConfig reads and unmarshals path, returning a zero Config (not an
// error) if the file does not exist — spice.yaml is optional.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options is the fully-resolved, merged set of compile options spec §6's
// CLI surface produces: CLI flags override spice.yaml values, which
// override built-in defaults (SPEC_FULL.md §B.3).
type Options struct {
	TargetTriple    string
	TargetArch      string
	TargetVendor    string
	TargetOS        string
	OutputPath      string
	OptLevel        string // "O0".."O3", "Os", "Oz"
	DebugOutput     bool
	DumpCST         bool
	DumpAST         bool
	DumpSymtab      bool
	DumpIR          bool
	StdDir          string
	CacheDir        string
	Jobs            int
}

// defaultOptions is the built-in baseline before any config file or CLI
// flag is applied.
func defaultOptions() Options {
	return Options{
		OptLevel: "O0",
		CacheDir: ".spice-cache",
		Jobs:     runtime.NumCPU(),
	}
}

// Resolve merges cfg over the built-in defaults, then applies overrides
// (the flags actually set on the command line — the driver only passes
// the ones a user supplied, leaving the rest as the Config's zero value
// so they don't clobber a configured setting with an empty string).
func Resolve(cfg Config, overrides Options) Options {
	opts := defaultOptions()

	if cfg.TargetTriple != "" {
		opts.TargetTriple = cfg.TargetTriple
	}
	if cfg.StdDir != "" {
		opts.StdDir = cfg.StdDir
	}
	if cfg.CacheDir != "" {
		opts.CacheDir = cfg.CacheDir
	}
	if cfg.Jobs > 0 {
		opts.Jobs = cfg.Jobs
	}

	if overrides.TargetTriple != "" {
		opts.TargetTriple = overrides.TargetTriple
	}
	if overrides.TargetArch != "" {
		opts.TargetArch = overrides.TargetArch
	}
	if overrides.TargetVendor != "" {
		opts.TargetVendor = overrides.TargetVendor
	}
	if overrides.TargetOS != "" {
		opts.TargetOS = overrides.TargetOS
	}
	if overrides.OutputPath != "" {
		opts.OutputPath = overrides.OutputPath
	}
	if overrides.OptLevel != "" {
		opts.OptLevel = overrides.OptLevel
	}
	if overrides.StdDir != "" {
		opts.StdDir = overrides.StdDir
	}
	if overrides.CacheDir != "" {
		opts.CacheDir = overrides.CacheDir
	}
	if overrides.Jobs > 0 {
		opts.Jobs = overrides.Jobs
	}
	opts.DebugOutput = opts.DebugOutput || overrides.DebugOutput
	opts.DumpCST = opts.DumpCST || overrides.DumpCST
	opts.DumpAST = opts.DumpAST || overrides.DumpAST
	opts.DumpSymtab = opts.DumpSymtab || overrides.DumpSymtab
	opts.DumpIR = opts.DumpIR || overrides.DumpIR

	return opts
}
