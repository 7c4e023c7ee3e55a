package commands

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"skinviz/bundle"
	"skinviz/config"
	"skinviz/faces"
	"skinviz/logger"
	"skinviz/mockdata"
	"skinviz/processing"
	"skinviz/scores"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func renderCmd() *cobra.Command {
	var (
		bundleFile string
		out        string
		mock       bool
		style      string
		tint       bool
	)
	cmd := &cobra.Command{
		Use:   "render <photo>",
		Short: "Render all concern overlays of a photo into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photo, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var payload scores.Payload
			maskSet := map[string][]byte{}
			if mock {
				img, _, err := image.DecodeConfig(bytes.NewReader(photo))
				if err != nil {
					return err
				}
				payload = mockdata.Scores()
				maskSet = mockdata.Masks(img.Width, img.Height)
			}
			if bundleFile != "" {
				data, err := os.ReadFile(bundleFile)
				if err != nil {
					return err
				}
				b, err := bundle.Parse(data)
				if err != nil {
					return err
				}
				payload, maskSet = b.Scores, b.Masks
			}

			detector, closeDetector, err := newDetector(backend)
			if err != nil {
				return err
			}
			defer closeDetector()
			c := processing.NewCompositor(faces.NewAdapter(detector), processing.WithTint(config.TINT_ENABLED))
			batch, err := renderFiles(c, photo, payload, maskSet, processing.Options{Style: processing.Style(style), Tint: tint}, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), batch.Tasks.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&bundleFile, "bundle", "b", "", "provider result bundle (zip)")
	cmd.Flags().StringVarP(&out, "out", "o", "out", "output directory")
	cmd.Flags().BoolVar(&mock, "mock", false, "use mock scores and masks")
	cmd.Flags().StringVar(&style, "style", config.OVERLAY_STYLE, "overlay style: outline or filled")
	cmd.Flags().BoolVar(&tint, "tint", false, "apply the clinical tint")
	return cmd
}

// renderFiles writes <concern>.jpg, composite.jpg and status.json into dir
func renderFiles(c *processing.Compositor, photo []byte, payload scores.Payload, maskSet map[string][]byte, opts processing.Options, dir string) (processing.Batch, error) {
	batch := c.CreateAllZoneVisualizations(photo, maskSet, payload, opts)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return batch, err
	}
	statuses := map[string]processing.Status{}
	for _, concern := range batch.Concerns {
		result := batch.Results[concern]
		statuses[concern] = result.Status
		if result.Image == nil {
			logger.Warn(logger.Fields{"concern": concern, "error": result.Err}, "Nothing rendered")
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, concern+".jpg"), result.Image, 0o644); err != nil {
			return batch, err
		}
	}

	var composite []byte
	var err error
	if len(maskSet) > 0 {
		composite, err = processing.CreateCompositeVisualization(photo, maskSet)
	} else {
		composite, err = processing.CreateSimpleComposite(photo)
	}
	if err != nil {
		logger.Warn(logger.Fields{"error": err}, "Composite not rendered")
	} else if err = os.WriteFile(filepath.Join(dir, "composite.jpg"), composite, 0o644); err != nil {
		return batch, err
	}

	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return batch, err
	}
	return batch, os.WriteFile(filepath.Join(dir, "status.json"), data, 0o644)
}
