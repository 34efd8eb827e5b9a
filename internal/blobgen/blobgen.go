// Package blobgen derives reproducible blobs of canonical field elements.
package blobgen

import (
	"math/rand"

	"github.com/ethereum/kzg-host/engine"
)

// FieldElement returns a field element that is canonical for every engine:
// its first byte is zero.
func FieldElement(r *rand.Rand) engine.Bytes32 {
	var fe engine.Bytes32
	r.Read(fe[1:])
	return fe
}

// Blob fills a blob with canonical field elements derived from seed.
func Blob(seed int64) *engine.Blob {
	r := rand.New(rand.NewSource(seed))
	blob := new(engine.Blob)
	for i := 0; i < engine.BytesPerBlob; i += engine.BytesPerFieldElement {
		fe := FieldElement(r)
		copy(blob[i:], fe[:])
	}
	return blob
}
