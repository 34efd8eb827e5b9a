package host

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/kzg-host/bindings"
	"github.com/ethereum/kzg-host/engine"
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrNotInitialized  = errors.New("runtime context has no bindings instance")
)

// Constants exported next to the functions.
var Constants = map[string]int{
	"BYTES_PER_FIELD_ELEMENT":     engine.BytesPerFieldElement,
	"FIELD_ELEMENTS_PER_BLOB":     engine.FieldElementsPerBlob,
	"BYTES_PER_BLOB":              engine.BytesPerBlob,
	"BYTES_PER_COMMITMENT":        engine.BytesPerCommitment,
	"BYTES_PER_PROOF":             engine.BytesPerProof,
	"FIELD_ELEMENTS_PER_EXT_BLOB": engine.FieldElementsPerExtBlob,
	"FIELD_ELEMENTS_PER_CELL":     engine.FieldElementsPerCell,
	"BYTES_PER_CELL":              engine.BytesPerCell,
	"CELLS_PER_EXT_BLOB":          engine.CellsPerExtBlob,
}

// Func is an exported function. Missing arguments are nil.
type Func func(args []any) (any, error)

// Exports is the table returned by Init.
type Exports struct {
	Constants map[string]int

	funcs map[string]Func
}

// Init creates the bindings instance of env and returns its exports. The
// instance is closed when env is closed.
func Init(env *Env, eng engine.Engine, opts ...bindings.Option) (*Exports, error) {
	in := bindings.New(eng, opts...)
	err := env.SetInstanceData(in, func(data any) {
		data.(*bindings.Instance).Close()
	})
	if err != nil {
		in.Close()
		return nil, err
	}
	return newExports(in), nil
}

// InstanceOf returns the bindings instance Init attached to env.
func InstanceOf(env *Env) (*bindings.Instance, error) {
	in, ok := env.InstanceData().(*bindings.Instance)
	if !ok {
		return nil, ErrNotInitialized
	}
	return in, nil
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func bytesList(b [][]byte) []any {
	out := make([]any, len(b))
	for i, v := range b {
		out[i] = v
	}
	return out
}

func newExports(in *bindings.Instance) *Exports {
	constants := make(map[string]int, len(Constants))
	for k, v := range Constants {
		constants[k] = v
	}
	return &Exports{
		Constants: constants,
		funcs: map[string]Func{
			bindings.OpLoadTrustedSetup: func(a []any) (any, error) {
				return nil, in.LoadTrustedSetup(arg(a, 0), arg(a, 1))
			},
			bindings.OpBlobToKZGCommitment: func(a []any) (any, error) {
				return in.BlobToKZGCommitment(arg(a, 0))
			},
			bindings.OpComputeKZGProof: func(a []any) (any, error) {
				proof, y, err := in.ComputeKZGProof(arg(a, 0), arg(a, 1))
				if err != nil {
					return nil, err
				}
				return []any{proof, y}, nil
			},
			bindings.OpComputeBlobKZGProof: func(a []any) (any, error) {
				return in.ComputeBlobKZGProof(arg(a, 0), arg(a, 1))
			},
			bindings.OpVerifyKZGProof: func(a []any) (any, error) {
				return in.VerifyKZGProof(arg(a, 0), arg(a, 1), arg(a, 2), arg(a, 3))
			},
			bindings.OpVerifyBlobKZGProof: func(a []any) (any, error) {
				return in.VerifyBlobKZGProof(arg(a, 0), arg(a, 1), arg(a, 2))
			},
			bindings.OpVerifyBlobKZGProofBatch: func(a []any) (any, error) {
				return in.VerifyBlobKZGProofBatch(arg(a, 0), arg(a, 1), arg(a, 2))
			},
			bindings.OpComputeCells: func(a []any) (any, error) {
				cells, err := in.ComputeCells(arg(a, 0))
				if err != nil {
					return nil, err
				}
				return bytesList(cells), nil
			},
			bindings.OpComputeCellsAndKZGProofs: func(a []any) (any, error) {
				cells, proofs, err := in.ComputeCellsAndKZGProofs(arg(a, 0))
				if err != nil {
					return nil, err
				}
				return []any{bytesList(cells), bytesList(proofs)}, nil
			},
			bindings.OpCellsToBlob: func(a []any) (any, error) {
				return in.CellsToBlob(arg(a, 0))
			},
			bindings.OpRecoverAllCells: func(a []any) (any, error) {
				cells, err := in.RecoverAllCells(arg(a, 0), arg(a, 1))
				if err != nil {
					return nil, err
				}
				return bytesList(cells), nil
			},
			bindings.OpRecoverCellsAndKZGProofs: func(a []any) (any, error) {
				cells, proofs, err := in.RecoverCellsAndKZGProofs(arg(a, 0), arg(a, 1))
				if err != nil {
					return nil, err
				}
				return []any{bytesList(cells), bytesList(proofs)}, nil
			},
			bindings.OpVerifyCellKZGProof: func(a []any) (any, error) {
				return in.VerifyCellKZGProof(arg(a, 0), arg(a, 1), arg(a, 2), arg(a, 3))
			},
			bindings.OpVerifyCellKZGProofBatch: func(a []any) (any, error) {
				return in.VerifyCellKZGProofBatch(arg(a, 0), arg(a, 1), arg(a, 2), arg(a, 3), arg(a, 4))
			},
		},
	}
}

// Call invokes the exported function name.
func (x *Exports) Call(name string, args ...any) (any, error) {
	fn, ok := x.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn(args)
}

// Names returns the exported function names in sorted order.
func (x *Exports) Names() []string {
	names := make([]string, 0, len(x.funcs))
	for name := range x.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
