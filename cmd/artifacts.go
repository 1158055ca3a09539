package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"landprice_service/internal/artifacts"
	"landprice_service/internal/core"
	"landprice_service/internal/infrastructure/mlclient"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Inspect the model artifacts",
}

var skipModelCheck bool

var artifactsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the artifacts and compare their schema with the served model",
	RunE: func(cmd *cobra.Command, args []string) error {
		arts, err := artifacts.Load(cfg.Artifacts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "categories: %d\n", len(arts.Categories()))
		fmt.Fprintf(out, "land types: %d\n", len(arts.LandTypes()))
		fmt.Fprintf(out, "columns:    %d\n", len(arts.Columns()))
		fmt.Fprintf(out, "epoch:      %s\n", arts.Epoch().Format("2006-01-02"))

		if skipModelCheck {
			return nil
		}

		predictor := mlclient.NewHTTPMLClient(cfg.Predictor.Endpoint, cfg.Predictor.MetadataURL, cfg.Predictor.Timeout, 0)
		info, err := predictor.GetModelInfo(cmd.Context())
		if err != nil {
			return err
		}
		if err := core.CheckModelSchema(arts.Columns(), info.FeatureNames); err != nil {
			return err
		}
		fmt.Fprintf(out, "model %q matches the artifact schema\n", info.Name)
		return nil
	},
}

func init() {
	artifactsCheckCmd.Flags().BoolVar(&skipModelCheck, "skip-model", false, "only validate the local artifact files")
	artifactsCmd.AddCommand(artifactsCheckCmd)
	rootCmd.AddCommand(artifactsCmd)
}
