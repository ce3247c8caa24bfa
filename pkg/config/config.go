// Package config loads and saves the forcegraph TOML configuration.
//
// The file has one section per subsystem:
//
//	[simulation]
//	link_distance = 100.0
//	repulsion = -300.0
//	collision_radius = 30.0
//
//	[interaction]
//	scale_min = 0.1
//	scale_max = 4.0
//
//	[render]
//	palette = ["#1f77b4", "#ff7f0e"]
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//
//	[cache]
//	backend = "file"
//
// Missing keys keep their defaults, so a partial file is valid.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcegraph/pkg/cache"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/force"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// Config is the complete forcegraph configuration.
type Config struct {
	Simulation  SimulationConfig  `toml:"simulation"`
	Interaction InteractionConfig `toml:"interaction"`
	Render      RenderConfig      `toml:"render"`
	Server      ServerConfig      `toml:"server"`
	Cache       CacheConfig       `toml:"cache"`
}

// SimulationConfig mirrors force.Config, plus the headless step limit.
type SimulationConfig struct {
	LinkDistance      float64 `toml:"link_distance"`
	LinkIterations    int     `toml:"link_iterations"`
	Repulsion         float64 `toml:"repulsion"`
	Theta             float64 `toml:"theta"`
	DistanceMin       float64 `toml:"distance_min"`
	DistanceMax       float64 `toml:"distance_max"`
	CollisionRadius   float64 `toml:"collision_radius"`
	CollisionStrength float64 `toml:"collision_strength"`
	CenterStrength    float64 `toml:"center_strength"`
	AlphaMin          float64 `toml:"alpha_min"`
	AlphaDecay        float64 `toml:"alpha_decay"`
	VelocityDecay     float64 `toml:"velocity_decay"`
	ResizeAlpha       float64 `toml:"resize_alpha"`
	Strict            bool    `toml:"strict"`
	Seed              uint64  `toml:"seed"`
	MaxSteps          int     `toml:"max_steps"` // Headless runs stop here if not settled
}

// InteractionConfig mirrors interact.Config.
type InteractionConfig struct {
	ScaleMin        float64 `toml:"scale_min"`
	ScaleMax        float64 `toml:"scale_max"`
	DragAlphaTarget float64 `toml:"drag_alpha_target"`
	WheelFactor     float64 `toml:"wheel_factor"`
	HitRadius       float64 `toml:"hit_radius"`
}

// RenderConfig mirrors render.Config, plus the palette and export options.
type RenderConfig struct {
	NodeRadius   float64  `toml:"node_radius"`
	LabelOffsetX float64  `toml:"label_offset_x"`
	LabelOffsetY float64  `toml:"label_offset_y"`
	LinkColor    string   `toml:"link_color"`
	LinkOpacity  float64  `toml:"link_opacity"`
	LinkWidth    float64  `toml:"link_width"`
	ArrowSize    float64  `toml:"arrow_size"`
	LinkLabels   bool     `toml:"link_labels"`
	Palette      []string `toml:"palette"`    // Empty selects category10
	Padding      float64  `toml:"padding"`    // Export margin around the graph
	Background   string   `toml:"background"` // Export background; empty is transparent
}

// ServerConfig configures `forcegraph serve`.
type ServerConfig struct {
	Addr          string   `toml:"addr"`
	FrameInterval Duration `toml:"frame_interval"`
	SessionTTL    Duration `toml:"session_ttl"` // Idle sessions are closed after this
	MaxSessions   int      `toml:"max_sessions"`
	MaxBodyBytes  int64    `toml:"max_body_bytes"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend         string   `toml:"backend"` // file, redis, mongo or none
	Dir             string   `toml:"dir"`
	TTL             Duration `toml:"ttl"`
	Prefix          string   `toml:"prefix"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// Server defaults.
const (
	DefaultAddr         = ":8080"
	DefaultSessionTTL   = 30 * time.Minute
	DefaultMaxSessions  = 256
	DefaultMaxBodyBytes = 8 << 20
	DefaultMaxSteps     = 1000
	DefaultPadding      = 40.0
)

// Default returns the built-in configuration.
func Default() *Config {
	sim := force.DefaultConfig()
	in := interact.DefaultConfig()
	r := render.DefaultConfig()
	return &Config{
		Simulation: SimulationConfig{
			LinkDistance:      sim.LinkDistance,
			LinkIterations:    sim.LinkIterations,
			Repulsion:         sim.Repulsion,
			Theta:             sim.Theta,
			DistanceMin:       sim.DistanceMin,
			DistanceMax:       sim.DistanceMax,
			CollisionRadius:   sim.CollisionRadius,
			CollisionStrength: sim.CollisionStrength,
			CenterStrength:    sim.CenterStrength,
			AlphaMin:          sim.AlphaMin,
			AlphaDecay:        sim.AlphaDecay,
			VelocityDecay:     sim.VelocityDecay,
			ResizeAlpha:       sim.ResizeAlpha,
			Strict:            sim.Strict,
			Seed:              sim.Seed,
			MaxSteps:          DefaultMaxSteps,
		},
		Interaction: InteractionConfig{
			ScaleMin:        in.ScaleMin,
			ScaleMax:        in.ScaleMax,
			DragAlphaTarget: in.DragAlphaTarget,
			WheelFactor:     in.WheelFactor,
			HitRadius:       in.HitRadius,
		},
		Render: RenderConfig{
			NodeRadius:   r.NodeRadius,
			LabelOffsetX: r.LabelOffsetX,
			LabelOffsetY: r.LabelOffsetY,
			LinkColor:    r.LinkColor,
			LinkOpacity:  r.LinkOpacity,
			LinkWidth:    r.LinkWidth,
			ArrowSize:    r.ArrowSize,
			LinkLabels:   r.LinkLabels,
			Padding:      DefaultPadding,
		},
		Server: ServerConfig{
			Addr:          DefaultAddr,
			FrameInterval: Duration(viz.DefaultFrameInterval),
			SessionTTL:    Duration(DefaultSessionTTL),
			MaxSessions:   DefaultMaxSessions,
			MaxBodyBytes:  DefaultMaxBodyBytes,
		},
		Cache: CacheConfig{
			Backend:         cache.BackendFile,
			TTL:             Duration(cache.LayoutTTL),
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   cache.DefaultMongoDatabase,
			MongoCollection: cache.DefaultMongoCollection,
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory ($XDG_CONFIG_HOME/forcegraph, or
// ~/.config/forcegraph).
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "forcegraph"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "forcegraph"), nil
}

// DefaultPath returns the path of the default config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// Load / Save
// =============================================================================

// Load reads the config at path on top of the defaults. A missing file
// yields the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read config %s", path)
	}

	if err := Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, rejecting unknown keys, and validates
// the result.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Viz().Validate(); err != nil {
		return err
	}
	switch {
	case c.Simulation.MaxSteps < 1:
		return errs.New(errs.ErrCodeInvalidConfig, "simulation.max_steps must be at least 1 (got %d)", c.Simulation.MaxSteps)
	case c.Render.NodeRadius < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "render.node_radius must not be negative (got %v)", c.Render.NodeRadius)
	case c.Render.Padding < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "render.padding must not be negative (got %v)", c.Render.Padding)
	case c.Server.FrameInterval <= 0:
		return errs.New(errs.ErrCodeInvalidConfig, "server.frame_interval must be positive (got %v)", c.Server.FrameInterval)
	case c.Server.SessionTTL <= 0:
		return errs.New(errs.ErrCodeInvalidConfig, "server.session_ttl must be positive (got %v)", c.Server.SessionTTL)
	case c.Server.MaxSessions < 1:
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_sessions must be at least 1 (got %d)", c.Server.MaxSessions)
	case c.Server.MaxBodyBytes < 1:
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_body_bytes must be positive (got %d)", c.Server.MaxBodyBytes)
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend must be file, redis, mongo or none (got %q)", c.Cache.Backend)
	}
	return nil
}

// =============================================================================
// Converters
// =============================================================================

// Force returns the simulation parameters.
func (c *Config) Force() force.Config {
	s := c.Simulation
	return force.Config{
		LinkDistance:      s.LinkDistance,
		LinkIterations:    s.LinkIterations,
		Repulsion:         s.Repulsion,
		Theta:             s.Theta,
		DistanceMin:       s.DistanceMin,
		DistanceMax:       s.DistanceMax,
		CollisionRadius:   s.CollisionRadius,
		CollisionStrength: s.CollisionStrength,
		CenterStrength:    s.CenterStrength,
		AlphaMin:          s.AlphaMin,
		AlphaDecay:        s.AlphaDecay,
		VelocityDecay:     s.VelocityDecay,
		ResizeAlpha:       s.ResizeAlpha,
		Strict:            s.Strict,
		Seed:              s.Seed,
	}
}

// Interact returns the interaction parameters.
func (c *Config) Interact() interact.Config {
	i := c.Interaction
	return interact.Config{
		ScaleMin:        i.ScaleMin,
		ScaleMax:        i.ScaleMax,
		DragAlphaTarget: i.DragAlphaTarget,
		WheelFactor:     i.WheelFactor,
		HitRadius:       i.HitRadius,
	}
}

// RenderStyle returns the primitive styling.
func (c *Config) RenderStyle() render.Config {
	r := c.Render
	return render.Config{
		NodeRadius:   r.NodeRadius,
		LabelOffsetX: r.LabelOffsetX,
		LabelOffsetY: r.LabelOffsetY,
		LinkColor:    r.LinkColor,
		LinkOpacity:  r.LinkOpacity,
		LinkWidth:    r.LinkWidth,
		ArrowSize:    r.ArrowSize,
		LinkLabels:   r.LinkLabels,
	}
}

// Viz returns the parameters of a visualization view.
func (c *Config) Viz() viz.Config {
	return viz.Config{
		Simulation:  c.Force(),
		Interaction: c.Interact(),
		Render:      c.RenderStyle(),
	}
}

// NewPalette returns a fresh palette over the configured colors.
func (c *Config) NewPalette() *render.Palette {
	return render.NewPalette(c.Render.Palette...)
}

// CacheOptions returns the options for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}
}

// Keyer returns the cache keyer, scoped by the configured prefix.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}
