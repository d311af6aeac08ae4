package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityregistry/config"
	"github.com/suparena/entityregistry/datastore"
	"github.com/suparena/entityregistry/datastore/mock"
	"github.com/suparena/entityregistry/errors"
	"github.com/suparena/entityregistry/indexmap"
	"github.com/suparena/entityregistry/snapshot"
	"github.com/suparena/entityregistry/storagemodels"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvRegistryID, config.EnvSeedFile, config.EnvLogLevel,
		config.EnvAccessKey, config.EnvSecretKey, config.EnvRegion, config.EnvTable,
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

// runCLI runs the command with no env file and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"-env", filepath.Join(t.TempDir(), "none.env")}, args...)
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

// useMockStore swaps the DynamoDB store for an in-memory one.
func useMockStore(t *testing.T) *mock.DataStore[storagemodels.EntityRecord] {
	t.Helper()
	store := mock.New[storagemodels.EntityRecord]().WithGetKeyFunc(func(v any) string {
		rec, ok := v.(storagemodels.EntityRecord)
		if !ok {
			return ""
		}
		keys, err := indexmap.Expand(snapshot.EntityIndexMap, rec)
		if err != nil {
			return ""
		}
		return keys["PK"] + "|" + keys["SK"]
	})
	orig := newStore
	newStore = func(context.Context, config.Config) (datastore.DataStore[storagemodels.EntityRecord], error) {
		return store, nil
	}
	t.Cleanup(func() { newStore = orig })
	return store
}

func TestVersion(t *testing.T) {
	clearEnv(t)
	out, err := runCLI(t, "-version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "registryctl version "))
	assert.Contains(t, out, "Go version:")
}

func TestScenario(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRegistryID, "cli")

	out, err := runCLI(t, "enter=peter", "designate=gomain", "enter=john", "rename=joe")
	require.NoError(t, err)
	assert.Equal(t, "registry cli\n  0 peter\n* 1 joe\n  2 john\n", out)
}

func TestEmptyRegistry(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRegistryID, "blank")

	out, err := runCLI(t)
	require.NoError(t, err)
	assert.Equal(t, "registry blank\n", out)
}

func TestOutThenSeed(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRegistryID, "filed")
	path := filepath.Join(t.TempDir(), "registry.yaml")

	_, err := runCLI(t, "-out", path, "enter=peter", "designate=gomain")
	require.NoError(t, err)

	// designate by the current name must reuse the seeded entity
	out, err := runCLI(t, "-seed", path, "designate=gomain", "rename=joe")
	require.NoError(t, err)
	assert.Equal(t, "registry filed\n  0 peter\n* 1 joe\n", out)
}

func TestSeedFromEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities:\n  - seq: 0\n    name: peter\n    designated: true\n"), 0o600))
	t.Setenv(config.EnvSeedFile, path)
	t.Setenv(config.EnvRegistryID, "seeded")

	out, err := runCLI(t, "enter=john")
	require.NoError(t, err)
	assert.Equal(t, "registry seeded\n* 0 peter\n  1 john\n", out)
}

func TestExportImport(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRegistryID, "shared")
	t.Setenv(config.EnvRegion, "us-west-2")
	t.Setenv(config.EnvTable, "registries")
	store := useMockStore(t)

	_, err := runCLI(t, "-export", "enter=peter", "designate=gomain", "enter=john")
	require.NoError(t, err)
	assert.Equal(t, 3, store.Count())

	out, err := runCLI(t, "-import", "shared", "-export", "rename=joe")
	require.NoError(t, err)
	assert.Equal(t, "registry shared\n  0 peter\n* 1 joe\n  2 john\n", out)

	rec, err := store.GetOne(context.Background(), storagemodels.EntityRecord{RegistryID: "shared", Seq: 1})
	require.NoError(t, err)
	assert.Equal(t, "joe", rec.Name)
	assert.True(t, rec.Designated)
}

func TestExportRefusesReusedRegistryID(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRegistryID, "shared")
	t.Setenv(config.EnvRegion, "us-west-2")
	t.Setenv(config.EnvTable, "registries")
	useMockStore(t)

	_, err := runCLI(t, "-export", "enter=peter", "designate=gomain")
	require.NoError(t, err)

	_, err = runCLI(t, "-export", "designate=solo")
	assert.True(t, errors.IsValidationError(err), "got %v", err)

	out, err := runCLI(t, "-import", "shared")
	require.NoError(t, err)
	assert.Equal(t, "registry shared\n  0 peter\n* 1 gomain\n", out)
}

func TestImportMissingRegistry(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvRegion, "us-west-2")
	t.Setenv(config.EnvTable, "registries")
	useMockStore(t)

	_, err := runCLI(t, "-import", "nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"NotAnOperation", []string{"peter"}},
		{"UnknownVerb", []string{"remove=peter"}},
		{"RenameWithoutDesignation", []string{"enter=peter", "rename=joe"}},
		{"ExportWithoutTable", []string{"-export", "enter=peter"}},
		{"ImportWithoutTable", []string{"-import", "reg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestBadFlag(t *testing.T) {
	clearEnv(t)
	_, err := runCLI(t, "-nope")
	assert.Error(t, err)
}
