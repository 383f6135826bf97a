package config

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.Limits.MaxClauses)
	assert.Equal(t, 10, cfg.Limits.MaxArgs)
	assert.Equal(t, 256, cfg.Limits.InputBufferSize)
	assert.False(t, cfg.Redirect.TruncateOutput)
	assert.Equal(t, "Welcome, user.\nYou are using MyShell™!", cfg.Motd)
	assert.Equal(t, `\u@\h:\w\$ `, cfg.Prompt)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.EventLog)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Configuration)
		field  string
	}{
		"bad color":         {mutate: func(c *Configuration) { c.Color = "rainbow" }, field: "color"},
		"bad spawn failure": {mutate: func(c *Configuration) { c.SpawnFailure = "ignore" }, field: "spawn_failure"},
		"no clauses":        {mutate: func(c *Configuration) { c.Limits.MaxClauses = 0 }, field: "max_clauses"},
		"no args":           {mutate: func(c *Configuration) { c.Limits.MaxArgs = 0 }, field: "max_args"},
		"tiny buffer":       {mutate: func(c *Configuration) { c.Limits.InputBufferSize = 1 }, field: "input_buffer_size"},
		"no prompt":         {mutate: func(c *Configuration) { c.Prompt = "" }, field: "prompt"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestLimits(t *testing.T) {
	limits := Limits{MaxClauses: 3, MaxArgs: 4, InputBufferSize: 5}

	parser := limits.Parser()
	assert.Equal(t, 3, parser.MaxClauses)
	assert.Equal(t, 4, parser.MaxArgs)

	assert.Equal(t, "abcd", limits.TruncateLine("abcdefgh"))
	assert.Equal(t, "abc", limits.TruncateLine("abc"))
	assert.Equal(t, "abcd", limits.TruncateLine("abcd"))
}
