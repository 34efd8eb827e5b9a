package bindings

import "strconv"

// VerifyBlobKZGProofBatch verifies blobs[i] against commitments[i] and
// proofs[i] for every i with one engine call. An empty batch is valid.
func (in *Instance) VerifyBlobKZGProofBatch(blobs, commitmentsBytes, proofsBytes any) (bool, error) {
	blobArr, err := arrayOf(blobs, "blobs")
	if err != nil {
		return false, err
	}
	commitmentArr, err := arrayOf(commitmentsBytes, "commitmentsBytes")
	if err != nil {
		return false, err
	}
	proofArr, err := arrayOf(proofsBytes, "proofsBytes")
	if err != nil {
		return false, err
	}
	count := blobArr.Len()
	if commitmentArr.Len() != count {
		return false, lengthMismatch("commitmentsBytes", commitmentArr.Len(), "blobs", count)
	}
	if proofArr.Len() != count {
		return false, lengthMismatch("proofsBytes", proofArr.Len(), "blobs", count)
	}
	blobViews, err := collect(blobArr, blobOf)
	if err != nil {
		return false, err
	}
	commitmentViews, err := collect(commitmentArr, bytes48Of)
	if err != nil {
		return false, err
	}
	proofViews, err := collect(proofArr, bytes48Of)
	if err != nil {
		return false, err
	}

	s, err := in.acquire()
	if err != nil {
		return false, err
	}
	defer in.release()

	scope := in.scope()
	defer scope.Close()

	flatBlobs, err := marshal(scope, "blobs", blobViews)
	if err != nil {
		return false, allocationError(OpVerifyBlobKZGProofBatch, err)
	}
	flatCommitments, err := marshal(scope, "commitments", commitmentViews)
	if err != nil {
		return false, allocationError(OpVerifyBlobKZGProofBatch, err)
	}
	flatProofs, err := marshal(scope, "proofs", proofViews)
	if err != nil {
		return false, allocationError(OpVerifyBlobKZGProofBatch, err)
	}

	ok, ret := in.eng.VerifyBlobKZGProofBatch(s, flatBlobs, flatCommitments, flatProofs)
	if err := in.check(OpVerifyBlobKZGProofBatch, ret); err != nil {
		return false, err
	}
	return ok, nil
}

// VerifyCellKZGProofBatch verifies every cells[i] as column columnIndices[i]
// of the row committed to by commitments[rowIndices[i]]. Row indices are
// checked against the number of commitments here; column indices are left to
// the engine.
func (in *Instance) VerifyCellKZGProofBatch(commitmentsBytes, rowIndices, columnIndices, cells, proofsBytes any) (bool, error) {
	commitmentArr, err := arrayOf(commitmentsBytes, "commitmentsBytes")
	if err != nil {
		return false, err
	}
	rowArr, err := indexArrayOf(rowIndices, "rowIndices")
	if err != nil {
		return false, err
	}
	columnArr, err := indexArrayOf(columnIndices, "columnIndices")
	if err != nil {
		return false, err
	}
	cellArr, err := arrayOf(cells, "cells")
	if err != nil {
		return false, err
	}
	proofArr, err := arrayOf(proofsBytes, "proofsBytes")
	if err != nil {
		return false, err
	}
	count := cellArr.Len()
	for _, a := range []array{rowArr, columnArr, proofArr} {
		if a.Len() != count {
			return false, lengthMismatch(a.field, a.Len(), "cells", count)
		}
	}

	commitmentViews, err := collect(commitmentArr, bytes48Of)
	if err != nil {
		return false, err
	}
	numCommitments := uint64(len(commitmentViews))
	rows, err := collect(rowArr, func(v any, field string) (uint64, error) {
		row, err := uintOf(v, field)
		if err != nil {
			return 0, err
		}
		if row >= numCommitments {
			return 0, outOfRange(field, strconv.FormatUint(row, 10),
				"is not below the number of commitments ("+strconv.FormatUint(numCommitments, 10)+")")
		}
		return row, nil
	})
	if err != nil {
		return false, err
	}
	columns, err := collect(columnArr, uintOf)
	if err != nil {
		return false, err
	}
	cellViews, err := collect(cellArr, cellOf)
	if err != nil {
		return false, err
	}
	proofViews, err := collect(proofArr, bytes48Of)
	if err != nil {
		return false, err
	}

	s, err := in.acquire()
	if err != nil {
		return false, err
	}
	defer in.release()

	scope := in.scope()
	defer scope.Close()

	flatCommitments, err := marshal(scope, "commitments", commitmentViews)
	if err != nil {
		return false, allocationError(OpVerifyCellKZGProofBatch, err)
	}
	flatRows, err := marshalIndices(scope, "rowIndices", rows)
	if err != nil {
		return false, allocationError(OpVerifyCellKZGProofBatch, err)
	}
	flatColumns, err := marshalIndices(scope, "columnIndices", columns)
	if err != nil {
		return false, allocationError(OpVerifyCellKZGProofBatch, err)
	}
	flatCells, err := marshal(scope, "cells", cellViews)
	if err != nil {
		return false, allocationError(OpVerifyCellKZGProofBatch, err)
	}
	flatProofs, err := marshal(scope, "proofs", proofViews)
	if err != nil {
		return false, allocationError(OpVerifyCellKZGProofBatch, err)
	}

	ok, ret := in.eng.VerifyCellKZGProofBatch(s, flatCommitments, flatRows, flatColumns, flatCells, flatProofs)
	if err := in.check(OpVerifyCellKZGProofBatch, ret); err != nil {
		return false, err
	}
	return ok, nil
}
