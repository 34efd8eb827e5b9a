package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/ethereum/kzg-host/bindings"
	"github.com/ethereum/kzg-host/host"
	"github.com/ethereum/kzg-host/internal/blobgen"
	"github.com/ethereum/kzg-host/internal/vectors"
	"github.com/ethereum/kzg-host/log"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newConstantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Print the exported constants as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), host.Constants)
		},
	}
}

// decodeArgs parses every argument as JSON and converts it to a runtime
// value. Arguments that are not valid JSON are taken as plain strings.
func decodeArgs(raw []string) ([]any, error) {
	args := make([]any, len(raw))
	for i, s := range raw {
		var v any
		dec := json.NewDecoder(bytes.NewReader([]byte(s)))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			v = s
		}
		d, err := host.DecodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = d
	}
	return args, nil
}

func newCallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call <function> [json-arg ...]",
		Short: "Call an exported function and print its result as JSON",
		Long: "Call an exported function with the configured trusted setup loaded.\n" +
			"Byte strings are written as 0x-prefixed hex, lists as JSON arrays.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := decodeArgs(args[1:])
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.exports.Call(args[0], callArgs...)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), host.EncodeValue(res))
		},
	}
}

func newVectorsCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "vectors <dir>",
		Short: "Run the reference test vectors found in dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := vectors.Load(args[0])
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				return fmt.Errorf("no test vectors found in %s", args[0])
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			results, err := vectors.Run(cmd.Context(), s.exports, cases, workers)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if !r.Passed() {
					failed++
					log.Warnw("vector failed", "path", r.Case.Path, "error", r.Err.Error())
				}
			}
			for _, sum := range vectors.Summarize(results) {
				fmt.Fprintf(out, "%-32s %5d passed %5d failed\n", sum.Suite, sum.Passed, sum.Failed)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d vectors failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "vectors run concurrently")
	return cmd
}

func newRandomBlobCommand() *cobra.Command {
	var seed int64
	var commit bool
	cmd := &cobra.Command{
		Use:   "random-blob",
		Short: "Print a blob of random canonical field elements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			blob := blobgen.Blob(seed)
			out := map[string]any{"blob": hexutil.Encode(blob[:])}
			if commit {
				s, err := openSession(cmd)
				if err != nil {
					return err
				}
				defer s.Close()
				c, err := s.exports.Call(bindings.OpBlobToKZGCommitment, blob[:])
				if err != nil {
					return err
				}
				out["commitment"] = host.EncodeValue(c)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&commit, "commit", false, "also print the commitment to the blob")
	return cmd
}
