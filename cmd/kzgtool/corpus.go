package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/host"
	"github.com/ethereum/kzg-host/internal/blobgen"
	"github.com/ethereum/kzg-host/log"
)

// corpusEntry renders values in the seed corpus format of go test fuzzing.
func corpusEntry(values ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString("go test fuzz v1\n")
	for _, v := range values {
		fmt.Fprintf(&b, "[]byte(%q)\n", v)
	}
	return b.Bytes()
}

func writeCorpus(dir, target, name string, data []byte) error {
	path := filepath.Join(dir, target, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Infow("corpus entry written", "path", path)
	return nil
}

func newCorpusCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "corpus <testdata/fuzz dir>",
		Short: "Write seed inputs for the bindings fuzz targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			in, err := host.InstanceOf(s.env)
			if err != nil {
				return err
			}

			for seed := int64(0); seed < int64(count); seed++ {
				blob := blobgen.Blob(seed)
				commitment, err := in.BlobToKZGCommitment(blob[:])
				if err != nil {
					return err
				}
				z := make([]byte, engine.BytesPerFieldElement)
				z[engine.BytesPerFieldElement-1] = byte(seed + 1)
				proof, y, err := in.ComputeKZGProof(blob[:], z)
				if err != nil {
					return err
				}
				name := fmt.Sprintf("valid-%d", seed)
				err = writeCorpus(args[0], "FuzzVerifyKZGProof", name,
					corpusEntry(bytes.Join([][]byte{commitment, z, y, proof}, nil)))
				if err != nil {
					return err
				}
				err = writeCorpus(args[0], "FuzzBlobToKZGCommitment", name, corpusEntry(blob[:engine.BytesPerFieldElement]))
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of entries per target")
	return cmd
}
