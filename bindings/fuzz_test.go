package bindings

import (
	"bytes"
	"errors"
	"testing"

	fuzz "github.com/trailofbits/go-fuzz-utils"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/engine/enginetest"
	"github.com/ethereum/kzg-host/internal/native"
)

type fuzzInstance struct {
	in    *Instance
	alloc *native.Tracking
}

func newFuzzInstance(f *testing.F) *fuzzInstance {
	f.Helper()
	alloc := native.NewTracking(native.Default())
	in := New(enginetest.New(), WithAllocator(alloc))
	if err := in.LoadTrustedSetup(0, enginetest.SetupFile(f)); err != nil {
		f.Fatal(err)
	}
	f.Cleanup(func() { in.Close() })
	return &fuzzInstance{in: in, alloc: alloc}
}

// check fails unless err is nil or one of the error kinds operations are
// allowed to return, and unless every native buffer has been released.
func (fi *fuzzInstance) check(t *testing.T, err error) {
	t.Helper()
	if live := fi.alloc.Live(); live != 0 {
		t.Fatalf("%d native buffers leaked", live)
	}
	if err == nil {
		return
	}
	var (
		ve *ValidationError
		se *SetupError
		ae *AllocationError
		ee *EngineError
	)
	if !errors.As(err, &ve) && !errors.As(err, &se) && !errors.As(err, &ae) && !errors.As(err, &ee) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
}

// repeatBlob fills a blob from a single field element read from tp.
func repeatBlob(tp *fuzz.TypeProvider) ([]byte, error) {
	fe, err := tp.GetNBytes(engine.BytesPerFieldElement)
	if err != nil {
		return nil, err
	}
	return bytes.Repeat(fe, engine.FieldElementsPerBlob), nil
}

func FuzzBlobToKZGCommitment(f *testing.F) {
	fi := newFuzzInstance(f)
	f.Add(make([]byte, engine.BytesPerFieldElement))
	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			return
		}
		blob, err := repeatBlob(tp)
		if err != nil {
			return
		}
		commitment, err := fi.in.BlobToKZGCommitment(blob)
		fi.check(t, err)
		if err == nil && len(commitment) != engine.BytesPerCommitment {
			t.Fatalf("commitment has %d bytes", len(commitment))
		}
	})
}

func FuzzVerifyKZGProof(f *testing.F) {
	fi := newFuzzInstance(f)
	f.Add(make([]byte, 2*engine.BytesPerCommitment+2*engine.BytesPerFieldElement))
	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			return
		}
		commitment, err := tp.GetNBytes(engine.BytesPerCommitment)
		if err != nil {
			return
		}
		z, err := tp.GetNBytes(engine.BytesPerFieldElement)
		if err != nil {
			return
		}
		y, err := tp.GetNBytes(engine.BytesPerFieldElement)
		if err != nil {
			return
		}
		proof, err := tp.GetNBytes(engine.BytesPerProof)
		if err != nil {
			return
		}
		_, err = fi.in.VerifyKZGProof(commitment, z, y, proof)
		fi.check(t, err)
	})
}

func FuzzVerifyBlobKZGProofBatch(f *testing.F) {
	fi := newFuzzInstance(f)
	f.Add([]byte{}, uint8(0))
	f.Add(make([]byte, 4*(engine.BytesPerFieldElement+2*engine.BytesPerCommitment)), uint8(4))
	f.Fuzz(func(t *testing.T, data []byte, count uint8) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			return
		}
		n := int(count % 8)
		var blobs, commitments, proofs [][]byte
		for i := 0; i < n; i++ {
			blob, err := repeatBlob(tp)
			if err != nil {
				return
			}
			commitment, err := tp.GetNBytes(engine.BytesPerCommitment)
			if err != nil {
				return
			}
			proof, err := tp.GetNBytes(engine.BytesPerProof)
			if err != nil {
				return
			}
			blobs = append(blobs, blob)
			commitments = append(commitments, commitment)
			proofs = append(proofs, proof)
		}
		ok, err := fi.in.VerifyBlobKZGProofBatch(blobs, commitments, proofs)
		fi.check(t, err)
		if n == 0 && (err != nil || !ok) {
			t.Fatalf("empty batch: ok=%v err=%v", ok, err)
		}
	})
}

func FuzzVerifyCellKZGProofBatch(f *testing.F) {
	fi := newFuzzInstance(f)
	f.Add([]byte{0, 0, 0}, uint8(1), uint8(1))
	f.Fuzz(func(t *testing.T, data []byte, numCommitments, numCells uint8) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			return
		}
		var commitments [][]byte
		for i := 0; i < int(numCommitments%4); i++ {
			c, err := tp.GetNBytes(engine.BytesPerCommitment)
			if err != nil {
				return
			}
			commitments = append(commitments, c)
		}
		var rows, columns []any
		var cells, proofs [][]byte
		for i := 0; i < int(numCells%4); i++ {
			idx, err := tp.GetNBytes(2)
			if err != nil {
				return
			}
			fe, err := tp.GetNBytes(engine.BytesPerFieldElement)
			if err != nil {
				return
			}
			proof, err := tp.GetNBytes(engine.BytesPerProof)
			if err != nil {
				return
			}
			rows = append(rows, int(idx[0]%5))
			columns = append(columns, int(idx[1]))
			cells = append(cells, bytes.Repeat(fe, engine.FieldElementsPerCell))
			proofs = append(proofs, proof)
		}
		_, err = fi.in.VerifyCellKZGProofBatch(commitments, rows, columns, cells, proofs)
		fi.check(t, err)
	})
}

func FuzzRecoverAllCells(f *testing.F) {
	fi := newFuzzInstance(f)
	f.Add(make([]byte, 2*engine.CellsPerBlob))
	f.Fuzz(func(t *testing.T, data []byte) {
		tp, err := fuzz.NewTypeProvider(data)
		if err != nil {
			return
		}
		idBytes, err := tp.GetNBytes(engine.CellsPerBlob)
		if err != nil {
			return
		}
		fe, err := tp.GetNBytes(engine.BytesPerFieldElement)
		if err != nil {
			return
		}
		ids := make([]int, len(idBytes))
		cells := make([][]byte, len(idBytes))
		for i, b := range idBytes {
			ids[i] = int(b)
			cells[i] = bytes.Repeat(fe, engine.FieldElementsPerCell)
		}
		recovered, err := fi.in.RecoverAllCells(ids, cells)
		fi.check(t, err)
		if err == nil && len(recovered) != engine.CellsPerExtBlob {
			t.Fatalf("recovered %d cells", len(recovered))
		}
	})
}
