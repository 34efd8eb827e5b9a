// Package bindings exposes a KZG engine to a dynamically typed caller.
//
// Every exported operation takes untyped values, validates them completely,
// checks that a trusted setup is loaded, marshals batch inputs into native
// buffers, calls the engine once and converts the result back into plain Go
// values. State lives in an Instance, one per calling runtime context.
package bindings

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/internal/native"
)

// Names of the operations as the host runtime exports them. They also
// prefix engine errors.
const (
	OpLoadTrustedSetup         = "loadTrustedSetup"
	OpBlobToKZGCommitment      = "blobToKzgCommitment"
	OpComputeKZGProof          = "computeKzgProof"
	OpComputeBlobKZGProof      = "computeBlobKzgProof"
	OpVerifyKZGProof           = "verifyKzgProof"
	OpVerifyBlobKZGProof       = "verifyBlobKzgProof"
	OpVerifyBlobKZGProofBatch  = "verifyBlobKzgProofBatch"
	OpComputeCells             = "computeCells"
	OpComputeCellsAndKZGProofs = "computeCellsAndKzgProofs"
	OpCellsToBlob              = "cellsToBlob"
	OpRecoverAllCells          = "recoverAllCells"
	OpRecoverCellsAndKZGProofs = "recoverCellsAndKzgProofs"
	OpVerifyCellKZGProof       = "verifyCellKzgProof"
	OpVerifyCellKZGProofBatch  = "verifyCellKzgProofBatch"
)

// Allocator provides the native buffers used by batch operations.
type Allocator = native.Allocator

type Option func(*Instance)

// WithAllocator replaces the default native allocator.
func WithAllocator(a Allocator) Option {
	return func(in *Instance) { in.alloc = a }
}

// WithMaxAllocation rejects any single native buffer larger than n bytes
// with an AllocationError.
func WithMaxAllocation(n int) Option {
	return func(in *Instance) { in.maxAlloc = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(in *Instance) { in.log = l }
}

// Instance is the state of one runtime context: at most one loaded trusted
// setup, released exactly once by Close.
//
// Operations hold a read lock for their whole duration, so Close waits for
// in-flight calls and a loaded setup is never released underneath one.
type Instance struct {
	eng      engine.Engine
	alloc    native.Allocator
	maxAlloc int
	log      zerolog.Logger

	mu       sync.RWMutex
	loaded   bool
	closed   bool
	path     string
	settings engine.Settings
}

func New(eng engine.Engine, opts ...Option) *Instance {
	in := &Instance{
		eng:   eng,
		alloc: native.Default(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.alloc = native.WithLimit(in.alloc, in.maxAlloc)
	in.log = in.log.With().Str("engine", eng.Name()).Logger()
	return in
}

func (in *Instance) Engine() engine.Engine { return in.eng }

// Loaded reports whether a trusted setup is currently loaded.
func (in *Instance) Loaded() bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.loaded
}

// LoadTrustedSetup loads the trusted setup stored at filePath. precompute
// must be a non-negative integer; its upper bound is enforced by the engine.
func (in *Instance) LoadTrustedSetup(precompute, filePath any) error {
	n, err := uintOf(precompute, "precompute")
	if err != nil {
		return err
	}
	path, ok := filePath.(string)
	if !ok {
		return wrongType("filePath", "a string", filePath)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return &SetupError{Kind: Destroyed}
	}
	if in.loaded {
		return &SetupError{Kind: AlreadyLoaded, Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return &SetupError{Kind: FileOpenFailed, Path: path, Err: err}
	}
	defer f.Close()

	settings, ret := in.eng.LoadTrustedSetup(f, n)
	if ret != engine.OK {
		in.log.Warn().Str("path", path).Stringer("ret", ret).Msg("trusted setup rejected")
		return &SetupError{Kind: EngineLoadFailed, Path: path, Ret: ret}
	}
	in.settings = settings
	in.loaded = true
	in.path = path
	in.log.Info().Str("path", path).Uint64("precompute", n).Msg("trusted setup loaded")
	return nil
}

// Close releases the loaded setup, if any. It is safe to call more than once;
// after it returns every operation fails with NotLoaded and loading fails
// with Destroyed.
func (in *Instance) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil
	}
	in.closed = true
	if in.loaded {
		in.eng.FreeTrustedSetup(in.settings)
		in.settings = nil
		in.loaded = false
		in.log.Info().Str("path", in.path).Msg("trusted setup released")
	}
	return nil
}

// acquire returns the loaded settings with the read lock held. The caller
// must call release once the engine call has returned.
func (in *Instance) acquire() (engine.Settings, error) {
	in.mu.RLock()
	if !in.loaded {
		in.mu.RUnlock()
		return nil, &SetupError{Kind: NotLoaded}
	}
	return in.settings, nil
}

func (in *Instance) release() { in.mu.RUnlock() }

func (in *Instance) check(op string, ret engine.Ret) error {
	err := mapRet(op, ret)
	if err != nil {
		in.log.Debug().Str("op", op).Stringer("ret", ret).Msg("engine call failed")
	}
	return err
}

func (in *Instance) scope() *native.Scope {
	return native.NewScope(in.alloc)
}
