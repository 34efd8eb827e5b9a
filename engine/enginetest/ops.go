package enginetest

import (
	"github.com/ethereum/kzg-host/engine"
)

func (e *Engine) BlobToKZGCommitment(s engine.Settings, blob *engine.Blob) (engine.KZGCommitment, engine.Ret) {
	if ret := e.enter(OpBlobToKZGCommitment); ret != engine.OK {
		return engine.KZGCommitment{}, ret
	}
	if !usable(s) || blob == nil || !canonicalBlob(blob) {
		return engine.KZGCommitment{}, engine.BadArgs
	}
	return engine.KZGCommitment(commit(blob)), engine.OK
}

func (e *Engine) ComputeKZGProof(s engine.Settings, blob *engine.Blob, z *engine.Bytes32) (engine.KZGProof, engine.Bytes32, engine.Ret) {
	if ret := e.enter(OpComputeKZGProof); ret != engine.OK {
		return engine.KZGProof{}, engine.Bytes32{}, ret
	}
	if !usable(s) || blob == nil || z == nil || !CanonicalFieldElement(z[:]) || !canonicalBlob(blob) {
		return engine.KZGProof{}, engine.Bytes32{}, engine.BadArgs
	}
	c := commit(blob)
	y := scalar([]byte("evaluation"), blob[:], z[:])
	return engine.KZGProof(evalProof(&c, z, &y)), y, engine.OK
}

func (e *Engine) ComputeBlobKZGProof(s engine.Settings, blob *engine.Blob, commitment *engine.Bytes48) (engine.KZGProof, engine.Ret) {
	if ret := e.enter(OpComputeBlobKZGProof); ret != engine.OK {
		return engine.KZGProof{}, ret
	}
	if !usable(s) || blob == nil || commitment == nil || !ValidPoint(commitment) || !canonicalBlob(blob) {
		return engine.KZGProof{}, engine.BadArgs
	}
	return engine.KZGProof(blobProof(blob, commitment)), engine.OK
}

func (e *Engine) VerifyKZGProof(s engine.Settings, commitment *engine.Bytes48, z, y *engine.Bytes32, proof *engine.Bytes48) (bool, engine.Ret) {
	if ret := e.enter(OpVerifyKZGProof); ret != engine.OK {
		return false, ret
	}
	if !usable(s) || commitment == nil || z == nil || y == nil || proof == nil {
		return false, engine.BadArgs
	}
	if !ValidPoint(commitment) || !ValidPoint(proof) || !CanonicalFieldElement(z[:]) || !CanonicalFieldElement(y[:]) {
		return false, engine.BadArgs
	}
	return evalProof(commitment, z, y) == *proof, engine.OK
}

func (e *Engine) verifyBlob(blob *engine.Blob, commitment, proof *engine.Bytes48) (bool, engine.Ret) {
	if !ValidPoint(commitment) || !ValidPoint(proof) || !canonicalBlob(blob) {
		return false, engine.BadArgs
	}
	return commit(blob) == *commitment && blobProof(blob, commitment) == *proof, engine.OK
}

func (e *Engine) VerifyBlobKZGProof(s engine.Settings, blob *engine.Blob, commitment, proof *engine.Bytes48) (bool, engine.Ret) {
	if ret := e.enter(OpVerifyBlobKZGProof); ret != engine.OK {
		return false, ret
	}
	if !usable(s) || blob == nil || commitment == nil || proof == nil {
		return false, engine.BadArgs
	}
	return e.verifyBlob(blob, commitment, proof)
}

func (e *Engine) VerifyBlobKZGProofBatch(s engine.Settings, blobs []engine.Blob, commitments, proofs []engine.Bytes48) (bool, engine.Ret) {
	if ret := e.enter(OpVerifyBlobKZGProofBatch); ret != engine.OK {
		return false, ret
	}
	if !usable(s) || len(blobs) != len(commitments) || len(blobs) != len(proofs) {
		return false, engine.BadArgs
	}
	valid := true
	for i := range blobs {
		ok, ret := e.verifyBlob(&blobs[i], &commitments[i], &proofs[i])
		if ret != engine.OK {
			return false, ret
		}
		valid = valid && ok
	}
	return valid, engine.OK
}

func (e *Engine) ComputeCellsAndKZGProofs(s engine.Settings, blob *engine.Blob, cells []engine.Cell, proofs []engine.KZGProof) engine.Ret {
	if ret := e.enter(OpComputeCellsAndKZGProofs); ret != engine.OK {
		return ret
	}
	if !usable(s) || blob == nil || len(cells) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if proofs != nil && len(proofs) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if !canonicalBlob(blob) {
		return engine.BadArgs
	}
	extend(blob, cells)
	if proofs != nil {
		c := commit(blob)
		for i := range cells {
			proofs[i] = engine.KZGProof(cellProof(&c, uint64(i), &cells[i]))
		}
	}
	return engine.OK
}

func (e *Engine) CellsToBlob(s engine.Settings, cells []engine.Cell) (engine.Blob, engine.Ret) {
	if ret := e.enter(OpCellsToBlob); ret != engine.OK {
		return engine.Blob{}, ret
	}
	if !usable(s) || len(cells) != engine.CellsPerExtBlob {
		return engine.Blob{}, engine.BadArgs
	}
	var blob engine.Blob
	for i := range cells {
		if !canonicalCell(&cells[i]) {
			return engine.Blob{}, engine.BadArgs
		}
		if i < engine.CellsPerBlob {
			copy(blob[i*engine.BytesPerCell:], cells[i][:])
		}
	}
	return blob, engine.OK
}

func (e *Engine) RecoverCellsAndKZGProofs(s engine.Settings, cellIDs []uint64, cells []engine.Cell, recovered []engine.Cell, proofs []engine.KZGProof) engine.Ret {
	if ret := e.enter(OpRecoverCellsAndKZGProofs); ret != engine.OK {
		return ret
	}
	if !usable(s) || len(cellIDs) != len(cells) || len(recovered) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if proofs != nil && len(proofs) != engine.CellsPerExtBlob {
		return engine.BadArgs
	}
	if len(cells) < engine.CellsPerBlob {
		return engine.BadArgs
	}

	var seen [engine.CellsPerExtBlob]bool
	var blob engine.Blob
	for i, id := range cellIDs {
		if id >= engine.CellsPerExtBlob || seen[id] || !canonicalCell(&cells[i]) {
			return engine.BadArgs
		}
		seen[id] = true
		src := &cells[i]
		if id >= engine.CellsPerBlob {
			var m engine.Cell
			mirror(&m, src)
			src = &m
			id -= engine.CellsPerBlob
		}
		copy(blob[id*engine.BytesPerCell:], src[:])
	}
	for i := 0; i < engine.CellsPerBlob; i++ {
		if !seen[i] && !seen[i+engine.CellsPerBlob] {
			return engine.BadArgs
		}
	}

	extend(&blob, recovered)
	if proofs != nil {
		c := commit(&blob)
		for i := range recovered {
			proofs[i] = engine.KZGProof(cellProof(&c, uint64(i), &recovered[i]))
		}
	}
	return engine.OK
}

func (e *Engine) verifyCell(commitment *engine.Bytes48, cellID uint64, cell *engine.Cell, proof *engine.Bytes48) (bool, engine.Ret) {
	if !ValidPoint(commitment) || !ValidPoint(proof) || cellID >= engine.CellsPerExtBlob || !canonicalCell(cell) {
		return false, engine.BadArgs
	}
	return cellProof(commitment, cellID, cell) == *proof, engine.OK
}

func (e *Engine) VerifyCellKZGProof(s engine.Settings, commitment *engine.Bytes48, cellID uint64, cell *engine.Cell, proof *engine.Bytes48) (bool, engine.Ret) {
	if ret := e.enter(OpVerifyCellKZGProof); ret != engine.OK {
		return false, ret
	}
	if !usable(s) || commitment == nil || cell == nil || proof == nil {
		return false, engine.BadArgs
	}
	return e.verifyCell(commitment, cellID, cell, proof)
}

func (e *Engine) VerifyCellKZGProofBatch(s engine.Settings, commitments []engine.Bytes48, rowIndices, columnIndices []uint64, cells []engine.Cell, proofs []engine.Bytes48) (bool, engine.Ret) {
	if ret := e.enter(OpVerifyCellKZGProofBatch); ret != engine.OK {
		return false, ret
	}
	n := len(cells)
	if !usable(s) || len(rowIndices) != n || len(columnIndices) != n || len(proofs) != n {
		return false, engine.BadArgs
	}
	valid := true
	for i := range cells {
		row := rowIndices[i]
		if row >= uint64(len(commitments)) {
			return false, engine.BadArgs
		}
		ok, ret := e.verifyCell(&commitments[row], columnIndices[i], &cells[i], &proofs[i])
		if ret != engine.OK {
			return false, ret
		}
		valid = valid && ok
	}
	return valid, engine.OK
}
