package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/dusk-indust/crossreview/internal/agent"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when neither --config nor
// CROSSREVIEW_CONFIG names one.
const DefaultPath = "crossreview.yaml"

// ErrUnknownAgent is returned when a name has no entry in the agents table.
var ErrUnknownAgent = errors.New("unknown agent")

type Config struct {
	Agents    map[string]AgentConfig `yaml:"agents"`
	Execution ExecutionConfig        `yaml:"execution"`
	History   HistoryConfig          `yaml:"history"`
}

type AgentConfig struct {
	Kind            agent.Kind `yaml:"kind"`
	Enabled         bool       `yaml:"enabled"`
	Command         string     `yaml:"command"`
	Model           string     `yaml:"model"`
	ModelFlag       string     `yaml:"model_flag"`
	PromptFlag      string     `yaml:"prompt_flag"`
	SkipPermissions string     `yaml:"skip_permissions"`
	Args            []string   `yaml:"args"`
}

type ExecutionConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Improve        bool   `yaml:"improve"`
	ArtifactSuffix string `yaml:"artifact_suffix"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func defaults() Config {
	return Config{
		Agents: map[string]AgentConfig{
			"claude": {
				Kind:            agent.KindClaude,
				Enabled:         true,
				Command:         "claude",
				SkipPermissions: "--dangerously-skip-permissions",
			},
			"gemini": {
				Kind:       agent.KindGemini,
				Enabled:    true,
				Command:    "gemini",
				Model:      "gemini-2.5-pro",
				PromptFlag: "-p",
			},
			"codex": {
				Kind: agent.KindCodex,
			},
		},
		Execution: ExecutionConfig{
			TimeoutSeconds: 300,
			Improve:        true,
			ArtifactSuffix: ".txt",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".crossreview/history.db",
		},
	}
}

// Load reads the config at path, falling back to CROSSREVIEW_CONFIG and then
// DefaultPath when path is empty. A missing file yields the defaults.
// Environment variables are expanded in the file before parsing and
// CROSSREVIEW_* overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("CROSSREVIEW_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CROSSREVIEW_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: CROSSREVIEW_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Execution.TimeoutSeconds = secs
	}
	if v := os.Getenv("CROSSREVIEW_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	return nil
}

// normalize fills the kind of entries named after a built-in kind and the
// default command of the claude and gemini kinds.
func (c *Config) normalize() {
	for name, ac := range c.Agents {
		if ac.Kind == "" {
			switch k := agent.Kind(name); k {
			case agent.KindClaude, agent.KindGemini, agent.KindCodex:
				ac.Kind = k
			default:
				ac.Kind = agent.KindGeneric
			}
		}
		if ac.Command == "" && (ac.Kind == agent.KindClaude || ac.Kind == agent.KindGemini) {
			ac.Command = string(ac.Kind)
		}
		c.Agents[name] = ac
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Execution.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: execution.timeout_seconds must be positive, got %d", c.Execution.TimeoutSeconds)
	}
	for _, name := range c.AgentNames() {
		ac := c.Agents[name]
		if ac.Kind != agent.KindCodex && ac.Command == "" {
			return fmt.Errorf("config: agent %q: command is required", name)
		}
	}
	return nil
}

// Timeout returns the review batch deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// Agent returns the entry for name.
func (c *Config) Agent(name string) (AgentConfig, error) {
	ac, ok := c.Agents[name]
	if !ok {
		return AgentConfig{}, fmt.Errorf("config: %w: %q (known: %v)", ErrUnknownAgent, name, c.AgentNames())
	}
	return ac, nil
}

// AgentNames returns the configured agent names in sorted order.
func (c *Config) AgentNames() []string {
	names := make([]string, 0, len(c.Agents))
	for name := range c.Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spec converts the entry into the launch description used by
// agent.Registry.
func (a AgentConfig) Spec() agent.Spec {
	var extra []string
	if a.SkipPermissions != "" {
		extra = append(extra, a.SkipPermissions)
	}
	extra = append(extra, a.Args...)
	return agent.Spec{
		Kind:       a.Kind,
		Command:    a.Command,
		Model:      a.Model,
		ModelFlag:  a.ModelFlag,
		PromptFlag: a.PromptFlag,
		ExtraArgs:  extra,
	}
}
