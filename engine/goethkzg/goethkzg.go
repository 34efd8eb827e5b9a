// Package goethkzg implements engine.Engine on top of go-eth-kzg.
package goethkzg

import (
	"bytes"
	"io"
	"unsafe"

	goethkzg "github.com/crate-crypto/go-eth-kzg"

	"github.com/ethereum/kzg-host/engine"
)

// Settings wraps a go-eth-kzg context owned by one load. The precompute value
// is recorded but the go-eth-kzg context does not use it.
type Settings struct {
	ctx        *goethkzg.Context
	precompute uint64
}

func (s *Settings) Precompute() uint64 { return s.precompute }

type Engine struct{}

func New() *Engine { return &Engine{} }

func (*Engine) Name() string { return "go-eth-kzg" }

func contextOf(s engine.Settings) *goethkzg.Context {
	st, ok := s.(*Settings)
	if !ok || st == nil {
		return nil
	}
	return st.ctx
}

func (*Engine) LoadTrustedSetup(r io.Reader, precompute uint64) (engine.Settings, engine.Ret) {
	if precompute > engine.MaxPrecompute {
		return nil, engine.BadArgs
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, engine.Error
	}
	var ctx *goethkzg.Context
	if string(bytes.TrimSpace(data)) == MainnetSetup {
		ctx, err = goethkzg.NewContext4096Secure()
	} else {
		params, perr := parseSetup(data)
		if perr != nil {
			return nil, engine.BadArgs
		}
		ctx, err = goethkzg.NewContext4096(params)
	}
	if err != nil {
		return nil, engine.BadArgs
	}
	return &Settings{ctx: ctx, precompute: precompute}, engine.OK
}

func (*Engine) FreeTrustedSetup(s engine.Settings) {
	if st, ok := s.(*Settings); ok && st != nil {
		st.ctx = nil
	}
}

func (*Engine) BlobToKZGCommitment(s engine.Settings, blob *engine.Blob) (engine.KZGCommitment, engine.Ret) {
	ctx := contextOf(s)
	if ctx == nil || blob == nil || !validBlob(blob) {
		return engine.KZGCommitment{}, engine.BadArgs
	}
	commitment, err := ctx.BlobToKZGCommitment((*goethkzg.Blob)(blob), 0)
	if err != nil {
		return engine.KZGCommitment{}, engine.BadArgs
	}
	return engine.KZGCommitment(commitment), engine.OK
}

func (*Engine) ComputeKZGProof(s engine.Settings, blob *engine.Blob, z *engine.Bytes32) (engine.KZGProof, engine.Bytes32, engine.Ret) {
	ctx := contextOf(s)
	if ctx == nil || blob == nil || z == nil || !validScalar(z[:]) || !validBlob(blob) {
		return engine.KZGProof{}, engine.Bytes32{}, engine.BadArgs
	}
	proof, y, err := ctx.ComputeKZGProof((*goethkzg.Blob)(blob), goethkzg.Scalar(*z), 0)
	if err != nil {
		return engine.KZGProof{}, engine.Bytes32{}, engine.BadArgs
	}
	return engine.KZGProof(proof), engine.Bytes32(y), engine.OK
}

func (*Engine) ComputeBlobKZGProof(s engine.Settings, blob *engine.Blob, commitment *engine.Bytes48) (engine.KZGProof, engine.Ret) {
	ctx := contextOf(s)
	if ctx == nil || blob == nil || commitment == nil || !validG1(commitment) || !validBlob(blob) {
		return engine.KZGProof{}, engine.BadArgs
	}
	proof, err := ctx.ComputeBlobKZGProof((*goethkzg.Blob)(blob), goethkzg.KZGCommitment(*commitment), 0)
	if err != nil {
		return engine.KZGProof{}, engine.BadArgs
	}
	return engine.KZGProof(proof), engine.OK
}

func (*Engine) VerifyKZGProof(s engine.Settings, commitment *engine.Bytes48, z, y *engine.Bytes32, proof *engine.Bytes48) (bool, engine.Ret) {
	ctx := contextOf(s)
	if ctx == nil || commitment == nil || z == nil || y == nil || proof == nil {
		return false, engine.BadArgs
	}
	if !validG1(commitment) || !validG1(proof) || !validScalar(z[:]) || !validScalar(y[:]) {
		return false, engine.BadArgs
	}
	err := ctx.VerifyKZGProof(goethkzg.KZGCommitment(*commitment), goethkzg.Scalar(*z), goethkzg.Scalar(*y), goethkzg.KZGProof(*proof))
	return err == nil, engine.OK
}

func (*Engine) VerifyBlobKZGProof(s engine.Settings, blob *engine.Blob, commitment, proof *engine.Bytes48) (bool, engine.Ret) {
	ctx := contextOf(s)
	if ctx == nil || blob == nil || commitment == nil || proof == nil {
		return false, engine.BadArgs
	}
	if !validG1(commitment) || !validG1(proof) || !validBlob(blob) {
		return false, engine.BadArgs
	}
	err := ctx.VerifyBlobKZGProof((*goethkzg.Blob)(blob), goethkzg.KZGCommitment(*commitment), goethkzg.KZGProof(*proof))
	return err == nil, engine.OK
}

func (*Engine) VerifyBlobKZGProofBatch(s engine.Settings, blobs []engine.Blob, commitments, proofs []engine.Bytes48) (bool, engine.Ret) {
	ctx := contextOf(s)
	if ctx == nil || len(blobs) != len(commitments) || len(blobs) != len(proofs) {
		return false, engine.BadArgs
	}
	if len(blobs) == 0 {
		return true, engine.OK
	}
	if !validG1s(commitments) || !validG1s(proofs) {
		return false, engine.BadArgs
	}
	for i := range blobs {
		if !validBlob(&blobs[i]) {
			return false, engine.BadArgs
		}
	}

	goBlobs := unsafe.Slice((*goethkzg.Blob)(&blobs[0]), len(blobs))
	goCommitments := make([]goethkzg.KZGCommitment, len(commitments))
	goProofs := make([]goethkzg.KZGProof, len(proofs))
	for i := range commitments {
		goCommitments[i] = goethkzg.KZGCommitment(commitments[i])
		goProofs[i] = goethkzg.KZGProof(proofs[i])
	}
	err := ctx.VerifyBlobKZGProofBatch(goBlobs, goCommitments, goProofs)
	return err == nil, engine.OK
}

func (*Engine) ComputeCellsAndKZGProofs(s engine.Settings, blob *engine.Blob, cells []engine.Cell, proofs []engine.KZGProof) engine.Ret {
	ctx := contextOf(s)
	if ctx == nil || blob == nil || len(cells) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if proofs != nil && len(proofs) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if !validBlob(blob) {
		return engine.BadArgs
	}

	if proofs == nil {
		computed, err := ctx.ComputeCells((*goethkzg.Blob)(blob), 0)
		if err != nil {
			return engine.BadArgs
		}
		for i, cell := range computed {
			cells[i] = engine.Cell(*cell)
		}
		return engine.OK
	}

	computed, computedProofs, err := ctx.ComputeCellsAndKZGProofs((*goethkzg.Blob)(blob), 0)
	if err != nil {
		return engine.BadArgs
	}
	for i := range computed {
		cells[i] = engine.Cell(*computed[i])
		proofs[i] = engine.KZGProof(computedProofs[i])
	}
	return engine.OK
}

// CellsToBlob relies on the extension being systematic: the first half of
// the cells of an extended blob is the blob itself.
func (*Engine) CellsToBlob(s engine.Settings, cells []engine.Cell) (engine.Blob, engine.Ret) {
	if contextOf(s) == nil || len(cells) != engine.CellsPerExtBlob || !validCells(cells) {
		return engine.Blob{}, engine.BadArgs
	}
	var blob engine.Blob
	for i := 0; i < engine.CellsPerBlob; i++ {
		copy(blob[i*engine.BytesPerCell:], cells[i][:])
	}
	return blob, engine.OK
}

func (*Engine) RecoverCellsAndKZGProofs(s engine.Settings, cellIDs []uint64, cells []engine.Cell, recovered []engine.Cell, proofs []engine.KZGProof) engine.Ret {
	ctx := contextOf(s)
	if ctx == nil || len(cellIDs) != len(cells) || len(recovered) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if proofs != nil && len(proofs) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if !validCellIDs(cellIDs) || !validCells(cells) {
		return engine.BadArgs
	}

	cellPtrs := make([]*goethkzg.Cell, len(cells))
	for i := range cells {
		cellPtrs[i] = (*goethkzg.Cell)(&cells[i])
	}
	outCells, outProofs, err := ctx.RecoverCellsAndComputeKZGProofs(cellIDs, cellPtrs, 0)
	if err != nil {
		return engine.BadArgs
	}
	for i := range outCells {
		recovered[i] = engine.Cell(*outCells[i])
		if proofs != nil {
			proofs[i] = engine.KZGProof(outProofs[i])
		}
	}
	return engine.OK
}

func (e *Engine) VerifyCellKZGProof(s engine.Settings, commitment *engine.Bytes48, cellID uint64, cell *engine.Cell, proof *engine.Bytes48) (bool, engine.Ret) {
	if commitment == nil || cell == nil || proof == nil {
		return false, engine.BadArgs
	}
	return e.VerifyCellKZGProofBatch(s,
		[]engine.Bytes48{*commitment},
		[]uint64{0},
		[]uint64{cellID},
		[]engine.Cell{*cell},
		[]engine.Bytes48{*proof})
}

func (*Engine) VerifyCellKZGProofBatch(s engine.Settings, commitments []engine.Bytes48, rowIndices, columnIndices []uint64, cells []engine.Cell, proofs []engine.Bytes48) (bool, engine.Ret) {
	ctx := contextOf(s)
	n := len(cells)
	if ctx == nil || len(rowIndices) != n || len(columnIndices) != n || len(proofs) != n {
		return false, engine.BadArgs
	}
	if !validG1s(commitments) || !validG1s(proofs) || !validCellIDs(columnIndices) {
		return false, engine.BadArgs
	}
	for _, row := range rowIndices {
		if row >= uint64(len(commitments)) {
			return false, engine.BadArgs
		}
	}
	if !validCells(cells) {
		return false, engine.BadArgs
	}
	if n == 0 {
		return true, engine.OK
	}

	cellCommitments := make([]goethkzg.KZGCommitment, n)
	cellPtrs := make([]*goethkzg.Cell, n)
	cellProofs := make([]goethkzg.KZGProof, n)
	for i := range cells {
		cellCommitments[i] = goethkzg.KZGCommitment(commitments[rowIndices[i]])
		cellPtrs[i] = (*goethkzg.Cell)(&cells[i])
		cellProofs[i] = goethkzg.KZGProof(proofs[i])
	}
	err := ctx.VerifyCellKZGProofBatch(cellCommitments, columnIndices, cellPtrs, cellProofs)
	return err == nil, engine.OK
}
