package bindings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/engine/enginetest"
)

func TestNotLoaded(t *testing.T) {
	eng := enginetest.New()
	in := New(eng)
	defer in.Close()

	_, err := in.BlobToKZGCommitment(blobBytes(1))
	require.ErrorIs(t, err, ErrNotLoaded)
	var se *SetupError
	require.ErrorAs(t, err, &se)
	require.Equal(t, NotLoaded, se.Kind)

	_, err = in.ComputeCells(blobBytes(1))
	require.ErrorIs(t, err, ErrNotLoaded)
	_, err = in.CellsToBlob(make([][]byte, engine.CellsPerExtBlob))
	requireValidation(t, err, WrongLength, "cells[0]")
	ok, err := in.VerifyBlobKZGProofBatch([]any{}, []any{}, []any{})
	require.ErrorIs(t, err, ErrNotLoaded)
	require.False(t, ok)

	require.Zero(t, eng.TotalCalls())
}

func TestAlreadyLoaded(t *testing.T) {
	f := newFixture(t)
	before, err := f.in.BlobToKZGCommitment(blobBytes(2))
	require.NoError(t, err)

	err = f.in.LoadTrustedSetup(0, f.setup)
	require.ErrorIs(t, err, ErrAlreadyLoaded)
	require.Equal(t, 1, f.eng.Loads())

	after, err := f.in.BlobToKZGCommitment(blobBytes(2))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestFileOpenFailedThenLoad(t *testing.T) {
	eng := enginetest.New()
	in := New(eng)
	defer in.Close()

	missing := filepath.Join(t.TempDir(), "missing.txt")
	err := in.LoadTrustedSetup(0, missing)
	require.ErrorIs(t, err, ErrFileOpen)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), missing)
	require.False(t, in.Loaded())
	require.Zero(t, eng.Calls(enginetest.OpLoadTrustedSetup))

	require.NoError(t, in.LoadTrustedSetup(0, enginetest.SetupFile(t)))
	require.True(t, in.Loaded())
}

func TestEngineLoadFailed(t *testing.T) {
	eng := enginetest.New()
	in := New(eng)
	defer in.Close()

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("garbage\n"), 0o644))
	err := in.LoadTrustedSetup(0, bad)
	require.ErrorIs(t, err, ErrEngineLoad)
	var se *SetupError
	require.ErrorAs(t, err, &se)
	require.Equal(t, engine.BadArgs, se.Ret)
	require.Contains(t, err.Error(), "C_KZG_BADARGS")

	err = in.LoadTrustedSetup(engine.MaxPrecompute+1, enginetest.SetupFile(t))
	require.ErrorIs(t, err, ErrEngineLoad)
	require.False(t, in.Loaded())

	require.NoError(t, in.LoadTrustedSetup(engine.MaxPrecompute, enginetest.SetupFile(t)))
}

func TestLoadArguments(t *testing.T) {
	in := New(enginetest.New())
	defer in.Close()

	requireValidation(t, in.LoadTrustedSetup("0", "x"), WrongType, "precompute")
	requireValidation(t, in.LoadTrustedSetup(-1, "x"), OutOfRange, "precompute")
	requireValidation(t, in.LoadTrustedSetup(0, 5), WrongType, "filePath")
	require.NoError(t, in.LoadTrustedSetup(8.0, enginetest.SetupFile(t)))
}

func TestClose(t *testing.T) {
	eng := enginetest.New()
	in := New(eng)
	require.NoError(t, in.Close())
	require.Zero(t, eng.Frees())

	in = New(eng)
	require.NoError(t, in.LoadTrustedSetup(0, enginetest.SetupFile(t)))
	require.NoError(t, in.Close())
	require.NoError(t, in.Close())
	require.Equal(t, 1, eng.Frees())

	_, err := in.BlobToKZGCommitment(blobBytes(1))
	require.ErrorIs(t, err, ErrNotLoaded)
	require.ErrorIs(t, in.LoadTrustedSetup(0, enginetest.SetupFile(t)), ErrDestroyed)
}

func TestCloseWaitsForOperations(t *testing.T) {
	eng := enginetest.New()
	in := New(eng)
	require.NoError(t, in.LoadTrustedSetup(0, enginetest.SetupFile(t)))

	blob := blobBytes(3)
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 20; j++ {
				_, err := in.BlobToKZGCommitment(blob)
				if errors.Is(err, ErrNotLoaded) {
					return nil
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, in.Close())
	require.NoError(t, g.Wait())
	require.Equal(t, 1, eng.Frees())
}

func TestInstancesAreIndependent(t *testing.T) {
	eng := enginetest.New()
	a, b := New(eng), New(eng)
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.LoadTrustedSetup(0, enginetest.SetupFile(t)))
	require.True(t, a.Loaded())
	require.False(t, b.Loaded())

	_, err := b.BlobToKZGCommitment(blobBytes(1))
	require.ErrorIs(t, err, ErrNotLoaded)
	require.NoError(t, b.LoadTrustedSetup(0, enginetest.SetupFile(t)))
	require.NoError(t, a.Close())

	_, err = b.BlobToKZGCommitment(blobBytes(1))
	require.NoError(t, err)
}
