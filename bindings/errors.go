package bindings

import (
	"errors"
	"fmt"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/internal/native"
)

var (
	ErrValidation     = errors.New("invalid argument")
	ErrWrongType      = errors.New("wrong type")
	ErrWrongLength    = errors.New("wrong length")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrOutOfRange     = errors.New("out of range")

	ErrNotLoaded     = errors.New("trusted setup is not loaded")
	ErrAlreadyLoaded = errors.New("trusted setup is already loaded")
	ErrFileOpen      = errors.New("cannot open trusted setup file")
	ErrEngineLoad    = errors.New("engine rejected trusted setup")
	ErrDestroyed     = errors.New("bindings instance is closed")

	ErrAllocation = native.ErrAllocation

	ErrBadArgs     = errors.New("bad arguments")
	ErrInternal    = errors.New("internal engine error")
	ErrOutOfMemory = errors.New("engine out of memory")
)

///////////////////////////////////////////////////////////////////////////////
// Validation
///////////////////////////////////////////////////////////////////////////////

type ValidationKind int

const (
	WrongType ValidationKind = iota + 1
	WrongLength
	LengthMismatch
	OutOfRange
)

func (k ValidationKind) String() string {
	switch k {
	case WrongType:
		return "WrongType"
	case WrongLength:
		return "WrongLength"
	case LengthMismatch:
		return "LengthMismatch"
	case OutOfRange:
		return "OutOfRange"
	}
	return fmt.Sprintf("ValidationKind(%d)", int(k))
}

// ValidationError reports a caller value that was rejected before any engine
// work or allocation took place.
type ValidationError struct {
	Kind  ValidationKind
	Field string

	// WrongType
	Want string
	Got  string

	// WrongLength and LengthMismatch; Other names the array Field must match.
	Expected int
	Actual   int
	Other    string

	// OutOfRange
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case WrongType:
		return fmt.Sprintf("expected %s to be %s, got %s", e.Field, e.Want, e.Got)
	case WrongLength:
		return fmt.Sprintf("expected %s to be %d bytes, got %d", e.Field, e.Expected, e.Actual)
	case LengthMismatch:
		return fmt.Sprintf("%s has %d elements but %s has %d", e.Field, e.Actual, e.Other, e.Expected)
	case OutOfRange:
		return fmt.Sprintf("%s: %s %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: invalid", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrWrongType:
		return e.Kind == WrongType
	case ErrWrongLength:
		return e.Kind == WrongLength
	case ErrLengthMismatch:
		return e.Kind == LengthMismatch
	case ErrOutOfRange:
		return e.Kind == OutOfRange
	}
	return false
}

///////////////////////////////////////////////////////////////////////////////
// Setup
///////////////////////////////////////////////////////////////////////////////

type SetupKind int

const (
	NotLoaded SetupKind = iota + 1
	AlreadyLoaded
	FileOpenFailed
	EngineLoadFailed
	Destroyed
)

func (k SetupKind) String() string {
	switch k {
	case NotLoaded:
		return "NotLoaded"
	case AlreadyLoaded:
		return "AlreadyLoaded"
	case FileOpenFailed:
		return "FileOpenFailed"
	case EngineLoadFailed:
		return "EngineLoadFailed"
	case Destroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("SetupKind(%d)", int(k))
}

type SetupError struct {
	Kind SetupKind
	Path string
	Ret  engine.Ret
	Err  error
}

func (e *SetupError) Error() string {
	switch e.Kind {
	case NotLoaded:
		return "must run loadTrustedSetup before running any other kzg functions"
	case AlreadyLoaded:
		return "trusted setup is already loaded"
	case FileOpenFailed:
		return fmt.Sprintf("error opening trusted setup file %q: %v", e.Path, e.Err)
	case EngineLoadFailed:
		return fmt.Sprintf("error loading trusted setup file %q: %s", e.Path, e.Ret)
	case Destroyed:
		return "bindings instance is closed"
	}
	return "trusted setup error"
}

func (e *SetupError) Unwrap() error { return e.Err }

func (e *SetupError) Is(target error) bool {
	switch target {
	case ErrNotLoaded:
		return e.Kind == NotLoaded
	case ErrAlreadyLoaded:
		return e.Kind == AlreadyLoaded
	case ErrFileOpen:
		return e.Kind == FileOpenFailed
	case ErrEngineLoad:
		return e.Kind == EngineLoadFailed
	case ErrDestroyed:
		return e.Kind == Destroyed
	}
	return false
}

///////////////////////////////////////////////////////////////////////////////
// Allocation
///////////////////////////////////////////////////////////////////////////////

// AllocationError reports a native buffer that could not be acquired. Every
// buffer acquired earlier in the same call has already been released.
type AllocationError struct {
	Op     string
	Buffer string
	Size   int
	Err    error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: error while allocating memory for %s: %v", e.Op, e.Buffer, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

func allocationError(op string, err error) error {
	var ae *native.AllocError
	if errors.As(err, &ae) {
		return &AllocationError{Op: op, Buffer: ae.Buffer, Size: ae.Size, Err: ae.Err}
	}
	return &AllocationError{Op: op, Err: err}
}

///////////////////////////////////////////////////////////////////////////////
// Engine
///////////////////////////////////////////////////////////////////////////////

type EngineKind int

const (
	BadArgs EngineKind = iota + 1
	Internal
	OutOfMemory
)

func (k EngineKind) String() string {
	switch k {
	case BadArgs:
		return "BadArgs"
	case Internal:
		return "Internal"
	case OutOfMemory:
		return "OutOfMemory"
	}
	return fmt.Sprintf("EngineKind(%d)", int(k))
}

type EngineError struct {
	Op   string
	Kind EngineKind
	Ret  engine.Ret
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Ret)
}

func (e *EngineError) Is(target error) bool {
	switch target {
	case ErrBadArgs:
		return e.Kind == BadArgs
	case ErrInternal:
		return e.Kind == Internal
	case ErrOutOfMemory:
		return e.Kind == OutOfMemory
	}
	return false
}

// mapRet translates an engine result code into an error. It returns nil for
// engine.OK.
func mapRet(op string, ret engine.Ret) error {
	switch ret {
	case engine.OK:
		return nil
	case engine.BadArgs:
		return &EngineError{Op: op, Kind: BadArgs, Ret: ret}
	case engine.Malloc:
		return &EngineError{Op: op, Kind: OutOfMemory, Ret: ret}
	}
	return &EngineError{Op: op, Kind: Internal, Ret: ret}
}
