// Package enginetest provides a deterministic engine.Engine for tests.
//
// Group elements are replaced by blake2b digests, so proofs only verify when
// they were produced by this engine for the same inputs. The cell extension
// is systematic: cell i < CellsPerBlob is the i-th slice of the blob and cell
// i+CellsPerBlob holds the field elements of cell i in reverse order, so a
// blob is recoverable from any set that contains one cell of every such pair.
package enginetest

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/crypto/blake2b"

	"github.com/ethereum/kzg-host/engine"
)

// SetupHeader is the first line of every setup file this engine accepts.
const SetupHeader = "enginetest-setup"

// Operation names used by Calls and Fail.
const (
	OpLoadTrustedSetup         = "LoadTrustedSetup"
	OpBlobToKZGCommitment      = "BlobToKZGCommitment"
	OpComputeKZGProof          = "ComputeKZGProof"
	OpComputeBlobKZGProof      = "ComputeBlobKZGProof"
	OpVerifyKZGProof           = "VerifyKZGProof"
	OpVerifyBlobKZGProof       = "VerifyBlobKZGProof"
	OpVerifyBlobKZGProofBatch  = "VerifyBlobKZGProofBatch"
	OpComputeCellsAndKZGProofs = "ComputeCellsAndKZGProofs"
	OpCellsToBlob              = "CellsToBlob"
	OpRecoverCellsAndKZGProofs = "RecoverCellsAndKZGProofs"
	OpVerifyCellKZGProof       = "VerifyCellKZGProof"
	OpVerifyCellKZGProofBatch  = "VerifyCellKZGProofBatch"
)

type Settings struct {
	precompute uint64
	freed      bool
}

func (s *Settings) Precompute() uint64 { return s.precompute }

type Engine struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]engine.Ret
	loads int
	frees int
}

func New() *Engine {
	return &Engine{
		calls: make(map[string]int),
		fail:  make(map[string]engine.Ret),
	}
}

func (*Engine) Name() string { return "enginetest" }

// Fail makes every later call of op return ret. Passing engine.OK clears it.
func (e *Engine) Fail(op string, ret engine.Ret) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ret == engine.OK {
		delete(e.fail, op)
		return
	}
	e.fail[op] = ret
}

// Calls returns how often op was invoked.
func (e *Engine) Calls(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

// TotalCalls returns the number of invocations over all operations.
func (e *Engine) TotalCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		n += c
	}
	return n
}

// Loads and Frees count successful setup loads and setup releases.
func (e *Engine) Loads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loads
}

func (e *Engine) Frees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frees
}

func (e *Engine) enter(op string) engine.Ret {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[op]++
	if ret, ok := e.fail[op]; ok {
		return ret
	}
	return engine.OK
}

// SetupFile writes a setup file accepted by this engine and returns its path.
func SetupFile(tb testing.TB) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "trusted_setup.txt")
	if err := os.WriteFile(path, []byte(SetupHeader+"\n"), 0o644); err != nil {
		tb.Fatalf("write setup: %v", err)
	}
	return path
}

func (e *Engine) LoadTrustedSetup(r io.Reader, precompute uint64) (engine.Settings, engine.Ret) {
	if ret := e.enter(OpLoadTrustedSetup); ret != engine.OK {
		return nil, ret
	}
	if precompute > engine.MaxPrecompute {
		return nil, engine.BadArgs
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, engine.Error
	}
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if line != SetupHeader {
		return nil, engine.BadArgs
	}
	e.mu.Lock()
	e.loads++
	e.mu.Unlock()
	return &Settings{precompute: precompute}, engine.OK
}

// FreeTrustedSetup panics when the same settings are released twice.
func (e *Engine) FreeTrustedSetup(s engine.Settings) {
	st, ok := s.(*Settings)
	if !ok {
		panic("enginetest: foreign settings")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if st.freed {
		panic("enginetest: trusted setup freed twice")
	}
	st.freed = true
	e.frees++
}

func usable(s engine.Settings) bool {
	st, ok := s.(*Settings)
	return ok && st != nil && !st.freed
}

///////////////////////////////////////////////////////////////////////////////
// Encodings
///////////////////////////////////////////////////////////////////////////////

// CanonicalFieldElement reports whether fe is accepted as a field element.
// The bound mirrors the top byte of the BLS12-381 scalar modulus.
func CanonicalFieldElement(fe []byte) bool {
	return fe[0] < 0x73
}

// ValidPoint reports whether b looks like a compressed point: either the
// compressed infinity encoding or a compressed non-infinity point.
func ValidPoint(b *engine.Bytes48) bool {
	if b[0] == 0xc0 {
		for _, v := range b[1:] {
			if v != 0 {
				return false
			}
		}
		return true
	}
	return b[0]&0xe0 == 0x80
}

func canonicalBlob(blob *engine.Blob) bool {
	for i := 0; i < engine.BytesPerBlob; i += engine.BytesPerFieldElement {
		if !CanonicalFieldElement(blob[i:]) {
			return false
		}
	}
	return true
}

func canonicalCell(cell *engine.Cell) bool {
	for i := 0; i < engine.FieldElementsPerCell; i++ {
		if !CanonicalFieldElement(cell.FieldElement(i)) {
			return false
		}
	}
	return true
}

func point(parts ...[]byte) engine.Bytes48 {
	h, _ := blake2b.New384(nil)
	for _, p := range parts {
		h.Write(p)
	}
	var out engine.Bytes48
	copy(out[:], h.Sum(nil))
	out[0] = 0x80 | out[0]&0x1f
	return out
}

func scalar(parts ...[]byte) engine.Bytes32 {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	var out engine.Bytes32
	copy(out[:], h.Sum(nil))
	out[0] = 0
	return out
}

func u64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func commit(blob *engine.Blob) engine.Bytes48 {
	return point([]byte("commitment"), blob[:])
}

func blobProof(blob *engine.Blob, commitment *engine.Bytes48) engine.Bytes48 {
	return point([]byte("blob-proof"), blob[:], commitment[:])
}

func evalProof(commitment *engine.Bytes48, z, y *engine.Bytes32) engine.Bytes48 {
	return point([]byte("eval-proof"), commitment[:], z[:], y[:])
}

func cellProof(commitment *engine.Bytes48, id uint64, cell *engine.Cell) engine.Bytes48 {
	return point([]byte("cell-proof"), commitment[:], u64(id), cell[:])
}

func mirror(dst, src *engine.Cell) {
	for i := 0; i < engine.FieldElementsPerCell; i++ {
		copy(dst.FieldElement(engine.FieldElementsPerCell-1-i), src.FieldElement(i))
	}
}

func extend(blob *engine.Blob, cells []engine.Cell) {
	for i := 0; i < engine.CellsPerBlob; i++ {
		copy(cells[i][:], blob[i*engine.BytesPerCell:])
		mirror(&cells[i+engine.CellsPerBlob], &cells[i])
	}
}
