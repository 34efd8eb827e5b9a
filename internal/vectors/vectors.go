// Package vectors runs the Ethereum KZG reference test vectors
// against an exports table. Every vector is a YAML file holding an input
// mapping and an output that is null when the call must fail.
package vectors

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ethereum/kzg-host/bindings"
	"github.com/ethereum/kzg-host/host"
)

// suite describes one vector directory: the export it exercises and the
// input keys passed as positional arguments.
type suite struct {
	dir  string
	op   string
	args []string
}

var suites = []suite{
	{"blob_to_kzg_commitment", bindings.OpBlobToKZGCommitment, []string{"blob"}},
	{"compute_kzg_proof", bindings.OpComputeKZGProof, []string{"blob", "z"}},
	{"compute_blob_kzg_proof", bindings.OpComputeBlobKZGProof, []string{"blob", "commitment"}},
	{"verify_kzg_proof", bindings.OpVerifyKZGProof, []string{"commitment", "z", "y", "proof"}},
	{"verify_blob_kzg_proof", bindings.OpVerifyBlobKZGProof, []string{"blob", "commitment", "proof"}},
	{"verify_blob_kzg_proof_batch", bindings.OpVerifyBlobKZGProofBatch, []string{"blobs", "commitments", "proofs"}},
	{"compute_cells", bindings.OpComputeCells, []string{"blob"}},
	{"compute_cells_and_kzg_proofs", bindings.OpComputeCellsAndKZGProofs, []string{"blob"}},
	{"recover_cells_and_kzg_proofs", bindings.OpRecoverCellsAndKZGProofs, []string{"cell_indices", "cells"}},
	{"verify_cell_kzg_proof_batch", bindings.OpVerifyCellKZGProofBatch, []string{"commitments", "cell_indices", "cells", "proofs"}},
}

// Suites returns the names of the vector directories Load understands.
func Suites() []string {
	names := make([]string, len(suites))
	for i, s := range suites {
		names[i] = s.dir
	}
	return names
}

// Case is one vector file.
type Case struct {
	Suite  string
	Path   string
	Input  map[string]any
	Output any

	suite *suite
}

type vectorFile struct {
	Input  map[string]any `yaml:"input"`
	Output any            `yaml:"output"`
}

// Load reads every vector below dir, laid out as <suite>/<fork>/<case>/data.yaml.
func Load(dir string) ([]Case, error) {
	var cases []Case
	for i := range suites {
		s := &suites[i]
		paths, err := filepath.Glob(filepath.Join(dir, s.dir, "*", "*", "data.yaml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(paths)
		for _, path := range paths {
			c, err := readCase(s, path)
			if err != nil {
				return nil, err
			}
			cases = append(cases, c)
		}
	}
	return cases, nil
}

func readCase(s *suite, path string) (Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Case{}, err
	}
	var f vectorFile
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return Case{}, fmt.Errorf("%s: %w", path, err)
	}
	return Case{Suite: s.dir, Path: path, Input: f.Input, Output: f.Output, suite: s}, nil
}

// Result is the outcome of one case.
type Result struct {
	Case Case
	Err  error
}

func (r Result) Passed() bool { return r.Err == nil }

// Run executes cases on x with at most workers concurrent calls and returns
// one result per case, in the order of cases.
func Run(ctx context.Context, x *host.Exports, cases []Case, workers int) ([]Result, error) {
	results := make([]Result, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Result{Case: cases[i], Err: runCase(x, cases[i])}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runCase(x *host.Exports, c Case) error {
	args, err := arguments(c)
	if err != nil {
		// A malformed encoding is an expected failure.
		if c.Output == nil {
			return nil
		}
		return fmt.Errorf("decoding input: %w", err)
	}
	got, err := x.Call(c.suite.op, args...)
	if err != nil {
		if c.Output == nil {
			return nil
		}
		return fmt.Errorf("%s failed: %w", c.suite.op, err)
	}
	if c.Output == nil {
		return fmt.Errorf("%s succeeded, expected an error", c.suite.op)
	}
	want := normalize(c.Output)
	if encoded := host.EncodeValue(got); !reflect.DeepEqual(want, encoded) {
		return fmt.Errorf("%s returned %v, expected %v", c.suite.op, abbreviate(encoded), abbreviate(want))
	}
	return nil
}

func arguments(c Case) ([]any, error) {
	args := make([]any, len(c.suite.args))
	for i, key := range c.suite.args {
		v, err := host.DecodeValue(c.Input[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		args[i] = v
	}
	if c.suite.op == bindings.OpVerifyCellKZGProofBatch {
		return rowArguments(args)
	}
	return args, nil
}

// rowArguments turns one commitment per cell into distinct commitments plus
// a row index per cell.
func rowArguments(args []any) ([]any, error) {
	perCell, ok := args[0].([]any)
	if !ok {
		return args, nil
	}
	var commitments []any
	rows := make([]any, len(perCell))
	index := make(map[string]int)
	for i, c := range perCell {
		b, ok := c.([]byte)
		if !ok {
			return nil, fmt.Errorf("commitments[%d]: not a byte string", i)
		}
		row, seen := index[string(b)]
		if !seen {
			row = len(commitments)
			index[string(b)] = row
			commitments = append(commitments, b)
		}
		rows[i] = row
	}
	if commitments == nil {
		commitments = []any{}
	}
	return append([]any{commitments, rows}, args[1:]...), nil
}

// normalize lowercases hex strings so expected outputs compare equal to
// encoded results.
func normalize(v any) any {
	switch v := v.(type) {
	case string:
		return strings.ToLower(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

func abbreviate(v any) string {
	s := fmt.Sprint(v)
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}

// Summary counts results per suite.
type Summary struct {
	Suite          string
	Passed, Failed int
}

func Summarize(results []Result) []Summary {
	index := make(map[string]int)
	var out []Summary
	for _, r := range results {
		i, ok := index[r.Case.Suite]
		if !ok {
			i = len(out)
			index[r.Case.Suite] = i
			out = append(out, Summary{Suite: r.Case.Suite})
		}
		if r.Passed() {
			out[i].Passed++
		} else {
			out[i].Failed++
		}
	}
	return out
}
