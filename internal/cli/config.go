package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"crowdgaze/internal/crowd"
)

const seedEnv = "CROWDGAZE_SEED"

// loadConfig reads a TOML file over DefaultConfig. Keys missing from the file
// keep their defaults; unknown keys are an error.
func loadConfig(path string) (crowd.Config, error) {
	cfg := crowd.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s: %w", path, strings.Join(keys, ", "), crowd.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveSeed picks the flag, then $CROWDGAZE_SEED, then the clock.
func (c *CLI) resolveSeed(flag string) (uint64, error) {
	if flag != "" {
		v, err := strconv.ParseUint(flag, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("--seed %q: %w", flag, err)
		}
		return v, nil
	}
	if s := c.getenv(seedEnv); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return v, nil
		}
		c.Logger.Warn("ignoring malformed seed", "env", seedEnv, "value", s)
	}
	return c.clock(), nil
}

func clockSeed() uint64 { return uint64(time.Now().UnixNano()) }
