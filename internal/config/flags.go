package config

import (
	"flag"
	"strconv"
)

// optionalBool is a boolean flag that remembers whether it was given.
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string {
	if !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set, b.value = true, v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagSplits       = flag.Int("splits", 0, "Number of shadow splits (1-8)")
	flagResolution   = flag.Int("resolution", 0, "Shadow map resolution per split")
	flagPSSMDistance = flag.Float64("pssm-distance", 0, "Maximum shadowed view distance")
	flagStable       optionalBool
	flagFixedFilm    optionalBool
)

func init() {
	flag.Var(&flagStable, "stable", "Snap shadow frusta to texels (true/false)")
	flag.Var(&flagFixedFilm, "fixed-film", "Keep shadow film size fixed between cache resets (true/false)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSplits > 0 {
		cfg.Shadows.NumSplits = *flagSplits
	}
	if *flagResolution > 0 {
		cfg.Shadows.Resolution = *flagResolution
	}
	if *flagPSSMDistance > 0 {
		cfg.Shadows.PSSMDistance = float32(*flagPSSMDistance)
	}
	if flagStable.set {
		cfg.Shadows.UseStableCSM = flagStable.value
	}
	if flagFixedFilm.set {
		cfg.Shadows.UseFixedFilmSize = flagFixedFilm.value
	}
}
