package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/born-ml/memref/internal/memref"
	"github.com/born-ml/memref/internal/tensor"
)

var unrankedSize = unsafe.Sizeof(memref.Unranked{})

func newLayoutCmd(root *rootOptions) *cobra.Command {
	var (
		rank  int
		dtype string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the descriptor struct layout for a rank and element type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rank < 0 {
				return fmt.Errorf("rank must be >= 0, got %d", rank)
			}
			dt, err := tensor.ParseDataType(dtype)
			if err != nil {
				return err
			}

			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			elem, err := root.registry(logger).MapElementType(dt)
			if err != nil {
				return err
			}

			typ := memref.DescriptorLayout(rank, elem)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "memref<%s> rank=%d element=%s (%d bytes) size=%d\n",
				dt, rank, elem, elem.Size(), typ.Size())

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tOFFSET\tSIZE\tTYPE")
			for i, f := range memref.LayoutFields(typ) {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", f.Name, f.Offset, f.Size, typ.Field(i).Type)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if ext := root.extendedTypes(); ext != nil {
				names := make([]string, 0, len(ext.Types()))
				for _, t := range ext.Types() {
					names = append(names, t.String())
				}
				fmt.Fprintf(out, "extended types: %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&rank, "rank", "r", 1, "descriptor rank")
	cmd.Flags().StringVarP(&dtype, "dtype", "t", "float32", "element data type (e.g. float32, bfloat16, complex128)")
	return cmd
}
