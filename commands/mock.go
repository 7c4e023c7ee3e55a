package commands

import (
	"fmt"
	"os"

	"skinviz/bundle"
	"skinviz/logger"
	"skinviz/mockdata"

	"github.com/spf13/cobra"
)

func mockCmd() *cobra.Command {
	var (
		width, height int
		out           string
	)
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Write a provider bundle with mock scores and masks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid size %dx%d", width, height)
			}
			data, err := bundle.Build(mockdata.Scores(), mockdata.Masks(width, height))
			if err != nil {
				return err
			}
			if err = os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.Info(logger.Fields{"file": out, "size": len(data)}, "Mock bundle written")
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 1024, "mask width")
	cmd.Flags().IntVar(&height, "height", 1024, "mask height")
	cmd.Flags().StringVarP(&out, "out", "o", "mock-bundle.zip", "output file")
	return cmd
}
