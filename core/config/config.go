package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/mysh/core/pipeline"
	"github.com/josephlewis42/mysh/core/shell"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
)

// ColorMode controls terminal coloring.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt      string    `json:"prompt" validate:"required"`
	Color       ColorMode `json:"color" validate:"oneof=auto always never"`
	Motd        string    `json:"motd"`
	DefaultPath string    `json:"default_path"`

	Limits   Limits   `json:"limits"`
	Redirect Redirect `json:"redirect"`

	SpawnFailure pipeline.SpawnFailurePolicy `json:"spawn_failure" validate:"oneof=kill orphan"`

	EventLog string `json:"event_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type Limits struct {
	MaxClauses      int `json:"max_clauses" validate:"gte=1"`
	MaxArgs         int `json:"max_args" validate:"gte=1"`
	InputBufferSize int `json:"input_buffer_size" validate:"gte=2"`
}

// Parser returns the limits that apply to parsing.
func (l Limits) Parser() shell.Limits {
	return shell.Limits{MaxClauses: l.MaxClauses, MaxArgs: l.MaxArgs}
}

// TruncateLine cuts line to fit the input buffer, which holds one byte less
// than its size.
func (l Limits) TruncateLine(line string) string {
	if l.InputBufferSize > 0 && len(line) > l.InputBufferSize-1 {
		return line[:l.InputBufferSize-1]
	}
	return line
}

type Redirect struct {
	TruncateOutput bool `json:"truncate_output"`
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// Default returns the built in configuration backed by memory instead of a
// directory. The event log is disabled.
func Default() *Configuration {
	cfg := defaultConfig()
	cfg.configFs = afero.NewMemMapFs()
	cfg.EventLog = ""
	return cfg
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
