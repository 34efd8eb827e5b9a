package main

import (
	"bytes"
	"encoding/json"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/engine/goethkzg"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mainnetSetup(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("loads the mainnet trusted setup")
	}
	path := filepath.Join(t.TempDir(), "trusted_setup.txt")
	require.NoError(t, os.WriteFile(path, []byte(goethkzg.MainnetSetup), 0o644))
	return path
}

func TestConstants(t *testing.T) {
	out, err := execute(t, "constants")
	require.NoError(t, err)
	var constants map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &constants))
	require.Equal(t, engine.BytesPerBlob, constants["BYTES_PER_BLOB"])
	require.Len(t, constants, 9)
}

func TestRandomBlob(t *testing.T) {
	out, err := execute(t, "random-blob", "--seed", "7")
	require.NoError(t, err)
	var res map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res["blob"], 2+2*engine.BytesPerBlob)

	again, err := execute(t, "random-blob", "--seed", "7")
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestDecodeArgs(t *testing.T) {
	args, err := decodeArgs([]string{`"0x0102"`, `[1, "0x03"]`, `8`, `/tmp/setup.txt`, `true`})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, args[0])
	require.Equal(t, []any{json.Number("1"), []byte{3}}, args[1])
	require.Equal(t, json.Number("8"), args[2])
	require.Equal(t, "/tmp/setup.txt", args[3])
	require.Equal(t, true, args[4])

	_, err = decodeArgs([]string{`"0x0"`})
	require.Error(t, err)
}

func TestCallErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := execute(t, "call", "blobToKzgCommitment", "0x00", "--trusted-setup", missing, "--log-level", "error")
	require.ErrorContains(t, err, "error opening trusted setup file")

	_, err = execute(t, "call", "blobToKzgCommitment", "--precompute", "16")
	require.ErrorContains(t, err, "precompute")

	_, err = execute(t, "call")
	require.Error(t, err)
}

func TestCallMainnet(t *testing.T) {
	setup := mainnetSetup(t)
	blob, err := execute(t, "random-blob", "--seed", "1")
	require.NoError(t, err)
	var res map[string]string
	require.NoError(t, json.Unmarshal([]byte(blob), &res))

	out, err := execute(t, "call", "blobToKzgCommitment", res["blob"], "-s", setup, "-l", "error")
	require.NoError(t, err)
	var commitment string
	require.NoError(t, json.Unmarshal([]byte(out), &commitment))
	require.True(t, strings.HasPrefix(commitment, "0x"))
	require.Len(t, commitment, 2+2*engine.BytesPerCommitment)

	_, err = execute(t, "call", "computeAggregateKzgProof", "-s", setup, "-l", "error")
	require.ErrorContains(t, err, "unknown function")
}

func TestCorpus(t *testing.T) {
	setup := mainnetSetup(t)
	dir := t.TempDir()
	_, err := execute(t, "corpus", dir, "-n", "2", "-s", setup, "-l", "error")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "FuzzVerifyKZGProof"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	data, err := os.ReadFile(filepath.Join(dir, "FuzzBlobToKZGCommitment", "valid-0"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("go test fuzz v1\n[]byte(")))
}

// TestNoTestingInBinary checks that no production package of the module
// imports the testing package or the fake engine built on it.
func TestNoTestingInBinary(t *testing.T) {
	root := filepath.Join("..", "..")
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == "enginetest" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range f.Imports {
			name, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			require.NotEqual(t, "testing", name, path)
			require.NotEqual(t, "github.com/ethereum/kzg-host/engine/enginetest", name, path)
		}
		return nil
	})
	require.NoError(t, err)
}
