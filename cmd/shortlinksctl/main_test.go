package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/shorturl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	_, err := execute(args, &out)
	return out.String(), err
}

func TestAddResolveList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "links.json")

	out, err := run(t, "--file", file, "add", "https://example.com", "ex1")
	require.NoError(t, err)
	assert.Equal(t, "Shortened! /api/ex1 -> https://example.com\n", out)

	_, err = run(t, "--file", file, "add", "https://go.dev/", "go")
	require.NoError(t, err)

	out, err = run(t, "--file", file, "resolve", "ex1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com\n", out)

	out, err = run(t, "--file", file, "list")
	require.NoError(t, err)
	assert.Equal(t, "ex1\thttps://example.com\ngo\thttps://go.dev/\n", out)

	out, err = run(t, "--file", file, "list", "--json")
	require.NoError(t, err)
	var links map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &links))
	assert.Equal(t, map[string]string{"ex1": "https://example.com", "go": "https://go.dev/"}, links)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.JSONEq(t, out, string(data), "the CLI writes the file the server reads")
}

func TestAdd_Generate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "links.json")

	_, err := run(t, "--file", file, "add", "https://example.com")
	assert.Error(t, err, "a code is required unless generation is on")

	out, err := run(t, "--file", file, "add", "--generate", "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "/api/"+shorturl.Generate("https://example.com"))
}

func TestResolve_Unknown(t *testing.T) {
	file := filepath.Join(t.TempDir(), "links.json")

	_, err := run(t, "--file", file, "resolve", "doesnotexist")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestArgs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "links.json")

	_, err := run(t, "--file", file, "resolve")
	assert.Error(t, err)

	_, err = run(t, "--file", file, "list", "extra")
	assert.Error(t, err)
}

func TestStoreClosedAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.db")

	a, err := execute([]string{"--sqlite", path, "resolve", "doesnotexist"}, io.Discard)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NotNil(t, a.store)

	err = a.store.Ping(context.Background())
	assert.ErrorIs(t, err, errs.ErrDBNotConnected, "store is closed even though resolve failed")
}
