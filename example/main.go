// Command example commits to a small blob and prints the commitment.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/ethereum/kzg-host/bindings"
	"github.com/ethereum/kzg-host/engine"
	"github.com/ethereum/kzg-host/engine/goethkzg"
)

var TrustedSetupPath = "trusted_setup.txt"

func main() {
	if len(os.Args) > 1 {
		TrustedSetupPath = os.Args[1]
	}

	kzg := bindings.New(goethkzg.New())
	defer kzg.Close()
	if err := kzg.LoadTrustedSetup(0, TrustedSetupPath); err != nil {
		panic(fmt.Sprintf("failed to load trusted setup: %v", err))
	}

	blob := make([]byte, engine.BytesPerBlob)
	copy(blob, []byte{0, 1, 2, 3})
	commitment, err := kzg.BlobToKZGCommitment(blob)
	if err != nil {
		panic(fmt.Sprintf("failed to get commitment for blob: %v", err))
	}
	fmt.Println(hex.EncodeToString(commitment))
}
