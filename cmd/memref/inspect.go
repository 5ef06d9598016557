package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/memref/internal/loader"
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	var unranked bool

	cmd := &cobra.Command{
		Use:   "inspect FILE.safetensors",
		Short: "Print the memref descriptor of every tensor in a SafeTensors file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			reg := root.registry(logger)
			opts := loader.DefaultOptions()
			opts.Logger = logger

			described, err := loader.DescribeFile(args[0], reg, opts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDTYPE\tLAYOUT\tRANK\tSHAPE\tSTRIDES\tOFFSET\tSIZE")
			for _, d := range described {
				desc := d.Descriptor
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\t%v\t%d\t%d\n",
					d.Name, d.Tensor.DType(), desc.Layout(), desc.Rank(),
					desc.Shape(), desc.Strides(), desc.Offset(), desc.Size())
				if unranked {
					u, err := reg.DescribeUnranked(d.Tensor)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "\t\tunranked\t%d\t\t\t\t%d\n", u.Rank, unrankedSize)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&unranked, "unranked", false, "also show the unranked wrapper of each descriptor")
	return cmd
}
