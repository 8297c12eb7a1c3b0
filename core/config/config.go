package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	// rootFs is the filesystem absolute paths are resolved against.
	rootFs afero.Fs
	// configFs is rooted at the configuration directory.
	configFs afero.Fs

	Prompt      string `json:"prompt"`
	MaxLine     int    `json:"max_line" validate:"gte=2,lte=65536"`
	MaxArgs     int    `json:"max_args" validate:"gte=2,lte=4096"`
	HistorySize int    `json:"history_size" validate:"gte=1,lte=10000"`
	LineEditing bool   `json:"line_editing"`
	Color       string `json:"color" validate:"oneof=auto always never"`
	LogLevel    string `json:"log_level" validate:"oneof=debug info warn error"`
	EventLog    string `json:"event_log"`
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

func (c *Configuration) fs(name string) afero.Fs {
	if filepath.IsAbs(name) || c.configFs == nil {
		if c.rootFs == nil {
			return afero.NewOsFs()
		}
		return c.rootFs
	}
	return c.configFs
}

// EventLogEnabled reports whether an event log destination is configured.
func (c *Configuration) EventLogEnabled() bool {
	return c.EventLog != ""
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs(c.EventLog).OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs(c.EventLog).OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration, rooted at the working directory.
func Default() *Configuration {
	out := defaultConfig()
	out.rootFs = afero.NewOsFs()
	out.configFs = out.rootFs
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
