/*
Copyright 2026 Assistbot Authors
SPDX-License-Identifier: Apache-2.0
*/

package eventcontext

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Built-in defaults, applied after input and overlay values in Merge.
const (
	DefaultTriggerPhrase  = "@claude"
	DefaultCLITool        = "claude-cli"
	DefaultTimeoutMinutes = 30
)

// ConfigFilePath is the repository-relative location of the optional
// configuration overlay.
const ConfigFilePath = ".github/mention-action.yml"

// Inputs holds the raw workflow inputs exactly as the Actions runner
// delivers them: INPUT_* environment variables, every value a string, with
// absent and empty indistinguishable. Typing and defaulting happen in Merge.
type Inputs struct {
	GitHubToken     string `env:"INPUT_GITHUB_TOKEN"`
	AppID           string `env:"INPUT_APP_ID"`
	InstallationID  string `env:"INPUT_INSTALLATION_ID"`
	AppPrivateKey   string `env:"INPUT_APP_PRIVATE_KEY"`
	TriggerPhrase   string `env:"INPUT_TRIGGER_PHRASE"`
	AssigneeTrigger string `env:"INPUT_ASSIGNEE_TRIGGER"`
	DirectPrompt    string `env:"INPUT_DIRECT_PROMPT"`
	AllowedBotNames string `env:"INPUT_ALLOWED_BOT_NAMES"`
	AllowedTools    string `env:"INPUT_ALLOWED_TOOLS"`
	DisallowedTools string `env:"INPUT_DISALLOWED_TOOLS"`
	CLITool         string `env:"INPUT_CLI_TOOL"`
	InstallCLI      string `env:"INPUT_INSTALL_CLI"`
	APIKey          string `env:"INPUT_API_KEY"`
	Model           string `env:"INPUT_MODEL"`
	MaxTurns        string `env:"INPUT_MAX_TURNS"`
	TimeoutMinutes  string `env:"INPUT_TIMEOUT_MINUTES"`
	MCPConfig       string `env:"INPUT_MCP_CONFIG"`
	UseBedrock      string `env:"INPUT_USE_BEDROCK"`
	UseVertex       string `env:"INPUT_USE_VERTEX"`
	CleanupBranch   string `env:"INPUT_CLEANUP_BRANCH"`
	BaseBranch      string `env:"INPUT_BASE_BRANCH"`
}

// LoadInputs decodes the INPUT_* environment through the given lookuper.
// Production callers pass envconfig.OsLookuper(); tests pass a MapLookuper.
func LoadInputs(ctx context.Context, lookuper envconfig.Lookuper) (*Inputs, error) {
	var in Inputs
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &in, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("decoding workflow inputs: %w", err)
	}
	return &in, nil
}

// FileConfig is the optional repository overlay. It supplies tuning defaults
// for repositories that want them checked in; explicit workflow inputs take
// precedence over everything here.
type FileConfig struct {
	TriggerPhrase   string   `yaml:"trigger_phrase"`
	AssigneeTrigger string   `yaml:"assignee_trigger"`
	AllowedBotNames []string `yaml:"allowed_bot_names"`
	CLITool         string   `yaml:"cli_tool"`
	Model           string   `yaml:"model"`
	MaxTurns        int      `yaml:"max_turns"`
	TimeoutMinutes  int      `yaml:"timeout_minutes"`
}

// LoadFileConfig reads the overlay at path. A missing file is not an error;
// it yields the zero overlay.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config overlay %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config overlay %s: %w", path, err)
	}
	return &fc, nil
}

// Config is the effective configuration consumed by the rest of the program:
// workflow inputs merged over the file overlay with built-in defaults
// applied last.
type Config struct {
	GitHubToken    string
	AppID          int64
	InstallationID int64
	AppPrivateKey  string

	TriggerPhrase   string
	AssigneeTrigger string
	DirectPrompt    string
	AllowedBots     []string

	CLITool         string
	InstallCLI      bool
	APIKey          string
	Model           string
	MaxTurns        int
	AllowedTools    string
	DisallowedTools string
	MCPConfig       string
	Timeout         time.Duration
	UseBedrock      bool
	UseVertex       bool

	CleanupBranch string
	BaseBranch    string
}

// Merge resolves the effective configuration. Precedence per knob: explicit
// workflow input, then file overlay, then built-in default.
func Merge(in *Inputs, file *FileConfig) (*Config, error) {
	cfg := &Config{
		GitHubToken:     in.GitHubToken,
		AppPrivateKey:   in.AppPrivateKey,
		DirectPrompt:    in.DirectPrompt,
		APIKey:          in.APIKey,
		AllowedTools:    in.AllowedTools,
		DisallowedTools: in.DisallowedTools,
		MCPConfig:       in.MCPConfig,
		CleanupBranch:   in.CleanupBranch,
		BaseBranch:      in.BaseBranch,
		TriggerPhrase:   firstOf(in.TriggerPhrase, file.TriggerPhrase, DefaultTriggerPhrase),
		AssigneeTrigger: firstOf(in.AssigneeTrigger, file.AssigneeTrigger),
		CLITool:         firstOf(in.CLITool, file.CLITool, DefaultCLITool),
		Model:           firstOf(in.Model, file.Model),
	}

	if in.AllowedBotNames != "" {
		cfg.AllowedBots = SplitList(in.AllowedBotNames)
	} else {
		cfg.AllowedBots = trimList(file.AllowedBotNames)
	}

	var err error
	if cfg.AppID, err = parseInt64("app_id", in.AppID); err != nil {
		return nil, err
	}
	if cfg.InstallationID, err = parseInt64("installation_id", in.InstallationID); err != nil {
		return nil, err
	}
	if cfg.InstallCLI, err = parseBool("install_cli", in.InstallCLI); err != nil {
		return nil, err
	}
	if cfg.UseBedrock, err = parseBool("use_bedrock", in.UseBedrock); err != nil {
		return nil, err
	}
	if cfg.UseVertex, err = parseBool("use_vertex", in.UseVertex); err != nil {
		return nil, err
	}

	maxTurns, err := parseInt("max_turns", in.MaxTurns)
	if err != nil {
		return nil, err
	}
	if maxTurns == 0 {
		maxTurns = file.MaxTurns
	}
	cfg.MaxTurns = maxTurns

	minutes, err := parseInt("timeout_minutes", in.TimeoutMinutes)
	if err != nil {
		return nil, err
	}
	if minutes == 0 {
		minutes = file.TimeoutMinutes
	}
	if minutes == 0 {
		minutes = DefaultTimeoutMinutes
	}
	cfg.Timeout = time.Duration(minutes) * time.Minute

	return cfg, nil
}

// SplitList splits a comma- and/or newline-separated list input, trimming
// whitespace and dropping empty entries.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	return trimList(fields)
}

func trimList(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstOf returns the first non-empty value.
func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseInt(name, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing input %s: %w", name, err)
	}
	return n, nil
}

func parseInt64(name, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing input %s: %w", name, err)
	}
	return n, nil
}

func parseBool(name, s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parsing input %s: %w", name, err)
	}
	return b, nil
}

// MissingConfigurationError reports a required configuration value that was
// not provided by the workflow or the environment.
type MissingConfigurationError struct {
	Name string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Name)
}
