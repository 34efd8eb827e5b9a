package goethkzg

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/ethereum/kzg-host/engine"
)

// go-eth-kzg reports malformed inputs and failed verifications through the
// same error value. The checks below separate the two: anything they reject
// is reported as BadArgs, and a verification error on inputs that pass them
// is a proof that does not verify.

func validScalar(b []byte) bool {
	var e fr.Element
	return e.SetBytesCanonical(b) == nil
}

func validG1(b *engine.Bytes48) bool {
	var p bls12381.G1Affine
	_, err := p.SetBytes(b[:])
	return err == nil
}

func validBlob(blob *engine.Blob) bool {
	for i := 0; i < engine.BytesPerBlob; i += engine.BytesPerFieldElement {
		if !validScalar(blob[i : i+engine.BytesPerFieldElement]) {
			return false
		}
	}
	return true
}

func validCell(cell *engine.Cell) bool {
	for i := 0; i < engine.FieldElementsPerCell; i++ {
		if !validScalar(cell.FieldElement(i)) {
			return false
		}
	}
	return true
}

func validG1s(points []engine.Bytes48) bool {
	for i := range points {
		if !validG1(&points[i]) {
			return false
		}
	}
	return true
}

func validCells(cells []engine.Cell) bool {
	for i := range cells {
		if !validCell(&cells[i]) {
			return false
		}
	}
	return true
}

func validCellIDs(ids []uint64) bool {
	for _, id := range ids {
		if id >= engine.CellsPerExtBlob {
			return false
		}
	}
	return true
}
