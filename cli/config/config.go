// Package config handles YAML config loading for cluster launches: a local
// config file, optional remote config refs merged over it, and named
// profiles selected after merging. CLI flags always override config values.
package config

import (
	"fmt"
	"sort"
)

// Config represents a launch configuration file.
// All values are optional and act as defaults for kuberun flags.
type Config struct {
	Namespace     string   `yaml:"namespace"`
	HeadImage     string   `yaml:"head_image"`
	HeadCPUs      int      `yaml:"head_cpus"`
	HeadMemory    string   `yaml:"head_memory"`
	HeadPreScript string   `yaml:"head_prescript"`
	Driver        string   `yaml:"driver"`
	VolumeMounts  []string `yaml:"volume_mounts"`

	History HistoryConfig `yaml:"history"`

	// Profiles are named overlays applied on request via remote-profile.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// HistoryConfig selects the run-history backend.
type HistoryConfig struct {
	// Backend is "fs", "redis", or "none".
	Backend string `yaml:"backend"`
	// Path is the history file path (fs backend).
	Path string `yaml:"path"`
	// RedisURL is the redis connection URL (redis backend).
	RedisURL string `yaml:"redis_url"`
}

// Profile is a named configuration overlay.
type Profile struct {
	Namespace     string   `yaml:"namespace"`
	HeadImage     string   `yaml:"head_image"`
	HeadCPUs      int      `yaml:"head_cpus"`
	HeadMemory    string   `yaml:"head_memory"`
	HeadPreScript string   `yaml:"head_prescript"`
	VolumeMounts  []string `yaml:"volume_mounts"`
}

// Merge applies overlay on top of c: non-zero overlay fields win, profiles
// are combined with overlay entries replacing same-named ones.
func (c *Config) Merge(overlay *Config) {
	if overlay == nil {
		return
	}
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
	if overlay.HeadImage != "" {
		c.HeadImage = overlay.HeadImage
	}
	if overlay.HeadCPUs != 0 {
		c.HeadCPUs = overlay.HeadCPUs
	}
	if overlay.HeadMemory != "" {
		c.HeadMemory = overlay.HeadMemory
	}
	if overlay.HeadPreScript != "" {
		c.HeadPreScript = overlay.HeadPreScript
	}
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if len(overlay.VolumeMounts) > 0 {
		c.VolumeMounts = overlay.VolumeMounts
	}
	if overlay.History.Backend != "" {
		c.History.Backend = overlay.History.Backend
	}
	if overlay.History.Path != "" {
		c.History.Path = overlay.History.Path
	}
	if overlay.History.RedisURL != "" {
		c.History.RedisURL = overlay.History.RedisURL
	}
	if len(overlay.Profiles) > 0 {
		if c.Profiles == nil {
			c.Profiles = make(map[string]Profile, len(overlay.Profiles))
		}
		for name, p := range overlay.Profiles {
			c.Profiles[name] = p
		}
	}
}

// ApplyProfile overlays the named profile onto the base values.
// Returns an error naming the available profiles when name is unknown.
func (c *Config) ApplyProfile(name string) error {
	if name == "" {
		return nil
	}
	p, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q (available: %v)", name, c.ProfileNames())
	}
	c.Merge(&Config{
		Namespace:     p.Namespace,
		HeadImage:     p.HeadImage,
		HeadCPUs:      p.HeadCPUs,
		HeadMemory:    p.HeadMemory,
		HeadPreScript: p.HeadPreScript,
		VolumeMounts:  p.VolumeMounts,
	})
	return nil
}

// ProfileNames returns the defined profile names, sorted for deterministic
// error messages.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
