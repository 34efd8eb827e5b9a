// Package engine defines the contract between the host bindings and a KZG
// engine: the size constants, the fixed-width wire types and the result codes
// an engine reports.
package engine

import (
	"fmt"
	"io"
)

const (
	BytesPerFieldElement    = 32
	FieldElementsPerBlob    = 4096
	BytesPerBlob            = BytesPerFieldElement * FieldElementsPerBlob
	BytesPerCommitment      = 48
	BytesPerProof           = 48
	FieldElementsPerExtBlob = 2 * FieldElementsPerBlob
	FieldElementsPerCell    = 64
	BytesPerCell            = BytesPerFieldElement * FieldElementsPerCell
	CellsPerExtBlob         = FieldElementsPerExtBlob / FieldElementsPerCell
	CellsPerBlob            = CellsPerExtBlob / 2

	// MaxPrecompute is the largest accepted precompute value.
	MaxPrecompute = 15
)

type (
	Bytes32       [32]byte
	Bytes48       [48]byte
	KZGCommitment Bytes48
	KZGProof      Bytes48
	Blob          [BytesPerBlob]byte
	Cell          [BytesPerCell]byte
)

// Ret is the result code reported by every engine operation.
type Ret int

const (
	OK Ret = iota
	BadArgs
	Error
	Malloc
)

func (r Ret) String() string {
	switch r {
	case OK:
		return "C_KZG_OK"
	case BadArgs:
		return "C_KZG_BADARGS"
	case Error:
		return "C_KZG_ERROR"
	case Malloc:
		return "C_KZG_MALLOC"
	}
	return fmt.Sprintf("UNKNOWN (%d)", int(r))
}

// Settings is the loaded trusted setup of an engine. Only the engine that
// produced it may interpret it.
type Settings interface {
	Precompute() uint64
}

// Engine is a KZG implementation. Every operation is a pure function of its
// inputs and the read-only settings, so one Settings value may be shared by
// concurrent callers. Malformed inputs are reported as BadArgs; a well-formed
// proof that does not verify is (false, OK).
//
// Output slices (cells, proofs, recovered) are provided by the caller and must
// hold exactly CellsPerExtBlob elements. A nil proofs slice skips proof
// computation.
type Engine interface {
	Name() string

	LoadTrustedSetup(r io.Reader, precompute uint64) (Settings, Ret)
	FreeTrustedSetup(s Settings)

	BlobToKZGCommitment(s Settings, blob *Blob) (KZGCommitment, Ret)
	ComputeKZGProof(s Settings, blob *Blob, z *Bytes32) (KZGProof, Bytes32, Ret)
	ComputeBlobKZGProof(s Settings, blob *Blob, commitment *Bytes48) (KZGProof, Ret)
	VerifyKZGProof(s Settings, commitment *Bytes48, z, y *Bytes32, proof *Bytes48) (bool, Ret)
	VerifyBlobKZGProof(s Settings, blob *Blob, commitment, proof *Bytes48) (bool, Ret)
	VerifyBlobKZGProofBatch(s Settings, blobs []Blob, commitments, proofs []Bytes48) (bool, Ret)

	ComputeCellsAndKZGProofs(s Settings, blob *Blob, cells []Cell, proofs []KZGProof) Ret
	CellsToBlob(s Settings, cells []Cell) (Blob, Ret)
	RecoverCellsAndKZGProofs(s Settings, cellIDs []uint64, cells []Cell, recovered []Cell, proofs []KZGProof) Ret
	VerifyCellKZGProof(s Settings, commitment *Bytes48, cellID uint64, cell *Cell, proof *Bytes48) (bool, Ret)
	VerifyCellKZGProofBatch(s Settings, commitments []Bytes48, rowIndices, columnIndices []uint64, cells []Cell, proofs []Bytes48) (bool, Ret)
}
