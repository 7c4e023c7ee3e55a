package commands

import (
	"fmt"

	"skinviz/severity"
	"skinviz/zones"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the zone catalog and severity tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(); err != nil {
				return err
			}
			for _, concern := range zones.Default.Concerns() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d levels, zones %v\n",
					concern, severity.NumLevels(concern), zones.Default.ZonesForConcern(concern))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func validate() error {
	if err := zones.Default.Validate(zones.MeshLandmarkCount); err != nil {
		return fmt.Errorf("zone catalog: %w", err)
	}
	if err := severity.Validate(); err != nil {
		return fmt.Errorf("severity tables: %w", err)
	}
	return nil
}
