package bindings

import (
	"github.com/ethereum/kzg-host/engine"
)

// ComputeCells returns the CellsPerExtBlob cells of the extended blob.
func (in *Instance) ComputeCells(blob any) ([][]byte, error) {
	cells, _, err := in.computeCells(OpComputeCells, blob, false)
	return cells, err
}

// ComputeCellsAndKZGProofs returns the cells of the extended blob and one
// proof per cell.
func (in *Instance) ComputeCellsAndKZGProofs(blob any) (cells, proofs [][]byte, err error) {
	return in.computeCells(OpComputeCellsAndKZGProofs, blob, true)
}

func (in *Instance) computeCells(op string, blob any, withProofs bool) ([][]byte, [][]byte, error) {
	b, err := blobOf(blob, "blob")
	if err != nil {
		return nil, nil, err
	}

	s, err := in.acquire()
	if err != nil {
		return nil, nil, err
	}
	defer in.release()

	scope := in.scope()
	defer scope.Close()

	cells, err := allocate[engine.Cell](scope, "cells", engine.CellsPerExtBlob)
	if err != nil {
		return nil, nil, allocationError(op, err)
	}
	var proofs []engine.KZGProof
	if withProofs {
		if proofs, err = allocate[engine.KZGProof](scope, "proofs", engine.CellsPerExtBlob); err != nil {
			return nil, nil, allocationError(op, err)
		}
	}

	ret := in.eng.ComputeCellsAndKZGProofs(s, b, cells, proofs)
	if err := in.check(op, ret); err != nil {
		return nil, nil, err
	}
	if !withProofs {
		return cellsOut(cells), nil, nil
	}
	return cellsOut(cells), proofsOut(proofs), nil
}

// CellsToBlob reassembles the blob from the full set of CellsPerExtBlob
// cells.
func (in *Instance) CellsToBlob(cells any) ([]byte, error) {
	arr, err := arrayOf(cells, "cells")
	if err != nil {
		return nil, err
	}
	if arr.Len() != engine.CellsPerExtBlob {
		return nil, &ValidationError{
			Kind: WrongLength, Field: "cells",
			Expected: engine.CellsPerExtBlob, Actual: arr.Len(),
		}
	}
	views, err := collect(arr, cellOf)
	if err != nil {
		return nil, err
	}

	s, err := in.acquire()
	if err != nil {
		return nil, err
	}
	defer in.release()

	scope := in.scope()
	defer scope.Close()

	flat, err := marshal(scope, "cells", views)
	if err != nil {
		return nil, allocationError(OpCellsToBlob, err)
	}
	blob, ret := in.eng.CellsToBlob(s, flat)
	if err := in.check(OpCellsToBlob, ret); err != nil {
		return nil, err
	}
	return clone(blob[:]), nil
}

// RecoverAllCells rebuilds every cell of the extended blob from a subset.
// Whether the subset is large enough is decided by the engine.
func (in *Instance) RecoverAllCells(cellIDs, cells any) ([][]byte, error) {
	recovered, _, err := in.recoverCells(OpRecoverAllCells, cellIDs, cells, false)
	return recovered, err
}

// RecoverCellsAndKZGProofs is RecoverAllCells that also returns the proof of
// every recovered cell.
func (in *Instance) RecoverCellsAndKZGProofs(cellIDs, cells any) (recovered, proofs [][]byte, err error) {
	return in.recoverCells(OpRecoverCellsAndKZGProofs, cellIDs, cells, true)
}

func (in *Instance) recoverCells(op string, cellIDs, cells any, withProofs bool) ([][]byte, [][]byte, error) {
	idArr, err := indexArrayOf(cellIDs, "cellIds")
	if err != nil {
		return nil, nil, err
	}
	cellArr, err := arrayOf(cells, "cells")
	if err != nil {
		return nil, nil, err
	}
	if cellArr.Len() != idArr.Len() {
		return nil, nil, lengthMismatch("cells", cellArr.Len(), "cellIds", idArr.Len())
	}
	ids, err := collect(idArr, uintOf)
	if err != nil {
		return nil, nil, err
	}
	views, err := collect(cellArr, cellOf)
	if err != nil {
		return nil, nil, err
	}

	s, err := in.acquire()
	if err != nil {
		return nil, nil, err
	}
	defer in.release()

	scope := in.scope()
	defer scope.Close()

	flatIDs, err := marshalIndices(scope, "cellIds", ids)
	if err != nil {
		return nil, nil, allocationError(op, err)
	}
	flatCells, err := marshal(scope, "cells", views)
	if err != nil {
		return nil, nil, allocationError(op, err)
	}
	recovered, err := allocate[engine.Cell](scope, "recovered", engine.CellsPerExtBlob)
	if err != nil {
		return nil, nil, allocationError(op, err)
	}
	var proofs []engine.KZGProof
	if withProofs {
		if proofs, err = allocate[engine.KZGProof](scope, "proofs", engine.CellsPerExtBlob); err != nil {
			return nil, nil, allocationError(op, err)
		}
	}

	ret := in.eng.RecoverCellsAndKZGProofs(s, flatIDs, flatCells, recovered, proofs)
	if err := in.check(op, ret); err != nil {
		return nil, nil, err
	}
	if !withProofs {
		return cellsOut(recovered), nil, nil
	}
	return cellsOut(recovered), proofsOut(proofs), nil
}
