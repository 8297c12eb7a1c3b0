package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestBuiltinConfig(t *testing.T) {
	rawConfig := make(map[string]interface{})
	assert.Nil(t, yaml.Unmarshal(defaultConfigData, &rawConfig))

	knownFields := make(map[string]bool)
	rt := reflect.TypeOf(Configuration{})
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		assert.NotEmpty(t, jsonTag)
		jsonField := strings.Split(jsonTag, ",")[0]
		knownFields[jsonField] = true

		if _, ok := rawConfig[jsonField]; !ok {
			assert.False(t, true, "default config missing field: %q", jsonField)
		}
	}

	for k := range rawConfig {
		_, ok := knownFields[k]
		assert.True(t, ok, "default config contains invalid field: %q", k)
	}
}

func TestDefaultConfig(t *testing.T) {
	// Will panic() on load failure because it should never happen at runtime.
	cfg := defaultConfig()
	assert.NotNil(t, cfg)
	assert.Nil(t, cfg.Validate())

	assert.Equal(t, "myshell: ", cfg.Prompt)
	assert.Equal(t, 128, cfg.MaxLine)
	assert.Equal(t, 32, cfg.MaxArgs)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.False(t, cfg.EventLogEnabled())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"defaults":          {func(*Configuration) {}, ""},
		"tiny line":         {func(c *Configuration) { c.MaxLine = 1 }, "max_line"},
		"no args":           {func(c *Configuration) { c.MaxArgs = 0 }, "max_args"},
		"no history":        {func(c *Configuration) { c.HistorySize = 0 }, "history_size"},
		"unknown color":     {func(c *Configuration) { c.Color = "sometimes" }, "color"},
		"unknown log level": {func(c *Configuration) { c.LogLevel = "trace" }, "log_level"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
