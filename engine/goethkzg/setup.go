package goethkzg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	goethkzg "github.com/crate-crypto/go-eth-kzg"

	"github.com/ethereum/kzg-host/engine"
)

// MainnetSetup is the content of a setup file that selects the mainnet
// ceremony output compiled into go-eth-kzg.
const MainnetSetup = "mainnet"

const numG2Points = 65

var (
	errSetupFormat     = errors.New("malformed trusted setup")
	errMissingMonomial = errors.New("trusted setup has no g1 monomial points")
)

// parseSetup decodes either the JSON trusted setup or the text format
// (n_g1, n_g2, g1 lagrange points, g2 monomial points, g1 monomial points).
func parseSetup(data []byte) (*goethkzg.JSONTrustedSetup, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		params := new(goethkzg.JSONTrustedSetup)
		if err := json.Unmarshal(trimmed, params); err != nil {
			return nil, fmt.Errorf("%w: %v", errSetupFormat, err)
		}
		return params, nil
	}
	return parseTextSetup(trimmed)
}

func parseTextSetup(data []byte) (*goethkzg.JSONTrustedSetup, error) {
	tokens := strings.Fields(string(data))
	pos := 0
	count := func(name string) (int, error) {
		if pos >= len(tokens) {
			return 0, fmt.Errorf("%w: missing %s", errSetupFormat, name)
		}
		n, err := strconv.Atoi(tokens[pos])
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", errSetupFormat, name, err)
		}
		pos++
		return n, nil
	}
	points := func(name string, n, size int) ([]string, error) {
		if pos+n > len(tokens) {
			return nil, fmt.Errorf("%w: %s has %d of %d points", errSetupFormat, name, len(tokens)-pos, n)
		}
		out := make([]string, n)
		for i, tok := range tokens[pos : pos+n] {
			if len(tok) != 2*size {
				return nil, fmt.Errorf("%w: %s[%d] has %d hex chars", errSetupFormat, name, i, len(tok))
			}
			out[i] = "0x" + tok
		}
		pos += n
		return out, nil
	}

	numG1, err := count("n_g1")
	if err != nil {
		return nil, err
	}
	numG2, err := count("n_g2")
	if err != nil {
		return nil, err
	}
	if numG1 != engine.FieldElementsPerBlob || numG2 != numG2Points {
		return nil, fmt.Errorf("%w: want %d g1 and %d g2 points, got %d and %d",
			errSetupFormat, engine.FieldElementsPerBlob, numG2Points, numG1, numG2)
	}
	lagrange, err := points("g1_lagrange", numG1, bytesPerG1)
	if err != nil {
		return nil, err
	}
	g2, err := points("g2_monomial", numG2, bytesPerG2)
	if err != nil {
		return nil, err
	}
	if pos == len(tokens) {
		return nil, errMissingMonomial
	}
	monomial, err := points("g1_monomial", numG1, bytesPerG1)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("%w: %d trailing tokens", errSetupFormat, len(tokens)-pos)
	}

	raw, err := json.Marshal(map[string][]string{
		"g1_monomial": monomial,
		"g1_lagrange": lagrange,
		"g2_monomial": g2,
	})
	if err != nil {
		return nil, err
	}
	params := new(goethkzg.JSONTrustedSetup)
	if err := json.Unmarshal(raw, params); err != nil {
		return nil, fmt.Errorf("%w: %v", errSetupFormat, err)
	}
	return params, nil
}

const (
	bytesPerG1 = 48
	bytesPerG2 = 96
)
