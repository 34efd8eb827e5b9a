package enginetest

import (
	"math/rand"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/internal/blobgen"
)

// RandFieldElement returns a field element that is canonical for every
// engine.
func RandFieldElement(r *rand.Rand) engine.Bytes32 { return blobgen.FieldElement(r) }

// RandBlob fills a blob with canonical field elements derived from seed.
func RandBlob(seed int64) *engine.Blob { return blobgen.Blob(seed) }
