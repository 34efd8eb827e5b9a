// Command kzgtool calls the KZG bindings from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ethereum/kzg-host/bindings"
	"github.com/ethereum/kzg-host/config"
	"github.com/ethereum/kzg-host/engine/goethkzg"
	"github.com/ethereum/kzg-host/host"
	"github.com/ethereum/kzg-host/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kzgtool",
		Short:         "Compute and verify KZG commitments, proofs and cells",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(
		newConstantsCommand(),
		newCallCommand(),
		newVectorsCommand(),
		newRandomBlobCommand(),
		newCorpusCommand(),
	)
	return root
}

// session is a runtime context with a loaded trusted setup.
type session struct {
	env     *host.Env
	exports *host.Exports
}

func (s *session) Close() { s.env.Close() }

// openSession loads the configuration, sets up logging and loads the
// configured trusted setup into a fresh runtime context.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.Output); err != nil {
		return nil, err
	}

	env := host.NewEnv()
	x, err := host.Init(env, goethkzg.New(),
		bindings.WithLogger(log.Logger()),
		bindings.WithMaxAllocation(cfg.MaxBufferBytes),
	)
	if err != nil {
		env.Close()
		return nil, err
	}
	if _, err := x.Call(bindings.OpLoadTrustedSetup, cfg.Precompute, cfg.TrustedSetup); err != nil {
		env.Close()
		return nil, err
	}
	log.Debugw("session ready", "setup", cfg.TrustedSetup, "precompute", cfg.Precompute)
	return &session{env: env, exports: x}, nil
}
