package commands

import (
	"fmt"

	"skinviz/config"
	"skinviz/faces"
	"skinviz/logger"

	"github.com/spf13/cobra"
)

var (
	debug   bool
	backend string
)

func Execute() error {
	root := &cobra.Command{
		Use:          "skinviz",
		Short:        "Facial zone severity visualization",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(config.DEBUG_MODE || debug, config.LOG_FILE)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging (also DEBUG_MODE)")
	root.PersistentFlags().StringVar(&backend, "landmarks", "", "landmark backend: sidecar, dlib or none (default LANDMARK_BACKEND)")

	root.AddCommand(serveCmd(), renderCmd(), mockCmd(), checkCmd())
	return root.Execute()
}

// newDetector returns the configured landmark detector and its cleanup function
func newDetector(name string) (faces.Detector, func(), error) {
	if name == "" {
		name = config.LANDMARK_BACKEND
	}
	switch name {
	case "sidecar":
		s := faces.NewFaceMeshSidecar(config.FACE_MESH_SCRIPT, config.TMP_DIR)
		return s, s.Close, nil
	case "dlib":
		d, err := faces.NewDlibDetector(config.FACE_MODELS_DIR)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	case "none":
		return faces.NoopDetector{}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown landmark backend %q", name)
}
