// Package config loads the optional HCL configuration file and exposes the
// unified settings model. CLI flags override file values; file values
// override built-in defaults.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pathlab/internal/ctxlog"
)

// Replay holds pacing settings for the animation replay engine.
type Replay struct {
	BaseDelayMs int `hcl:"base_delay_ms,optional"`
	Speed       int `hcl:"speed,optional"`
}

// RandomGraph holds the defaults for generated graphs.
type RandomGraph struct {
	Nodes           int     `hcl:"nodes,optional"`
	EdgeProbability float64 `hcl:"edge_probability,optional"`
}

// Model is the unified application configuration.
type Model struct {
	ListenAddr string       `hcl:"listen_addr,optional"`
	SolverURL  string       `hcl:"solver_url,optional"`
	LogLevel   string       `hcl:"log_level,optional"`
	LogFormat  string       `hcl:"log_format,optional"`
	Replay     *Replay      `hcl:"replay,block"`
	Random     *RandomGraph `hcl:"random_graph,block"`
}

// Default returns the built-in settings.
func Default() *Model {
	return &Model{
		ListenAddr: ":8080",
		SolverURL:  "http://localhost:8080",
		LogLevel:   "info",
		LogFormat:  "text",
		Replay:     &Replay{BaseDelayMs: 800, Speed: 5},
		Random:     &RandomGraph{Nodes: 12, EdgeProbability: 0.4},
	}
}

// BaseDelay returns the replay base delay as a duration.
func (m *Model) BaseDelay() time.Duration {
	return time.Duration(m.Replay.BaseDelayMs) * time.Millisecond
}

// evalContext exposes the built-in defaults to expressions in the file, so a
// config can write e.g. `speed = defaults.speed`.
func evalContext() *hcl.EvalContext {
	d := Default()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"listen_addr":      cty.StringVal(d.ListenAddr),
				"solver_url":       cty.StringVal(d.SolverURL),
				"log_level":        cty.StringVal(d.LogLevel),
				"log_format":       cty.StringVal(d.LogFormat),
				"base_delay_ms":    cty.NumberIntVal(int64(d.Replay.BaseDelayMs)),
				"speed":            cty.NumberIntVal(int64(d.Replay.Speed)),
				"nodes":            cty.NumberIntVal(int64(d.Random.Nodes)),
				"edge_probability": cty.NumberFloatVal(d.Random.EdgeProbability),
			}),
		},
	}
}

// Load reads an HCL config file and merges it over the defaults. An empty
// path returns the defaults unchanged.
func Load(ctx context.Context, path string) (*Model, error) {
	model := Default()
	if path == "" {
		return model, nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading config file.", "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var loaded Model
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &loaded); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if loaded.ListenAddr != "" {
		model.ListenAddr = loaded.ListenAddr
	}
	if loaded.SolverURL != "" {
		model.SolverURL = loaded.SolverURL
	}
	if loaded.LogLevel != "" {
		model.LogLevel = loaded.LogLevel
	}
	if loaded.LogFormat != "" {
		model.LogFormat = loaded.LogFormat
	}
	if loaded.Replay != nil {
		if loaded.Replay.BaseDelayMs > 0 {
			model.Replay.BaseDelayMs = loaded.Replay.BaseDelayMs
		}
		if loaded.Replay.Speed > 0 {
			model.Replay.Speed = loaded.Replay.Speed
		}
	}
	if loaded.Random != nil {
		if loaded.Random.Nodes > 0 {
			model.Random.Nodes = loaded.Random.Nodes
		}
		if loaded.Random.EdgeProbability > 0 {
			model.Random.EdgeProbability = loaded.Random.EdgeProbability
		}
	}

	logger.Debug("Config file loaded.", "listen_addr", model.ListenAddr, "solver_url", model.SolverURL)
	return model, nil
}
