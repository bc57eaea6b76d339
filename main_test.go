package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositiveInt(t *testing.T) {
	n, err := parsePositiveInt("3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parsePositiveInt("0")
	assert.Error(t, err)

	_, err = parsePositiveInt("abc")
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	expected := []string{
		"restaurants", "menu", "reviews", "browse",
		"review", "like", "contact",
		"auth", "config", "version", "completion",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestConfigSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range configCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["show"])
	assert.True(t, names["init"])
	assert.True(t, names["set"])
}
