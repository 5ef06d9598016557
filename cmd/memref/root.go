package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/born-ml/memref/internal/memref"
	"github.com/born-ml/memref/internal/tensor"
)

type rootOptions struct {
	verbose    bool
	noExtended bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "memref",
		Short:        "Inspect memref descriptors for host tensors",
		Long:         "memref shows how tensors are described to a compiler runtime: descriptor layouts, element types, shapes and element strides.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&opts.noExtended, "no-extended", false, "run without the extended type registry (bfloat16, float8_e5m2)")

	cmd.AddCommand(
		newInspectCmd(opts),
		newLayoutCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func (o *rootOptions) registry(logger *zap.Logger) *memref.Registry {
	return memref.NewRegistry(memref.Config{
		ExtendedTypes: o.extendedTypes(),
		Logger:        logger,
	})
}

// extendedTypes returns the extended type registry handed to the memref registry.
func (o *rootOptions) extendedTypes() *tensor.ExtendedTypes {
	if o.noExtended {
		return nil
	}
	return tensor.DefaultExtendedTypes()
}
