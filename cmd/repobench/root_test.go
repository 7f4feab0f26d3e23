/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testBuildInfo() buildInfo {
	return buildInfo{Version: "1.2.3", Commit: "abc123", BuildTime: "2026-02-19T00:00:00Z"}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out, testBuildInfo())
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "version=1.2.3")
	require.Contains(t, out, "commit=abc123")
	require.Contains(t, out, "build_time=2026-02-19T00:00:00Z")
}

func TestVersionCommandOutputsJSON(t *testing.T) {
	out, err := runCLI(t, "version", "--json")
	require.NoError(t, err)

	var payload buildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, testBuildInfo(), payload)
}

func TestRootHasGlobalFlags(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(&out, testBuildInfo())
	for _, name := range []string{"config", "driver", "dsn", "log-level", "log-format", "log-file", "query-log"} {
		require.NotNilf(t, cmd.PersistentFlags().Lookup(name), "missing flag %q", name)
	}
	for _, name := range []string{"run", "list", "seed", "addresses", "version"} {
		_, _, err := cmd.Find([]string{name})
		require.NoErrorf(t, err, "expected command %q", name)
	}
}

func TestListCommand(t *testing.T) {
	out, err := runCLI(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, "PersonLookup\n  FirstOrDefaultWithoutCachedSet\n  FirstOrDefaultWithCachedSet\n")
	require.Contains(t, out, "CorrelatedQuery\n  CorrelatingDatabaseCommands\n  GetAllData\n")
}

func TestSeedAddressesAndRun(t *testing.T) {
	dir := t.TempDir()
	global := []string{
		"--config", filepath.Join(dir, "missing.json"),
		"--dsn", filepath.Join(dir, "adventureworks.db"),
	}

	out, err := runCLI(t, append(global, "seed", "--persons", "3", "--addresses", "2")...)
	require.NoError(t, err)
	require.Contains(t, out, "persons=3 passwords=3 addresses=2 sql_files=0")

	out, err = runCLI(t, append(global, "addresses", "--json")...)
	require.NoError(t, err)
	var addresses []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &addresses))
	require.Len(t, addresses, 2)

	out, err = runCLI(t, append(global, "run", "PersonLookup", "--warmup", "0", "-n", "2")...)
	require.NoError(t, err)
	require.Contains(t, out, "FirstOrDefaultWithCachedSet")

	_, err = runCLI(t, append(global, "run", "Nope")...)
	require.Error(t, err)
}
