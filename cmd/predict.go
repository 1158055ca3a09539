package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"landprice_service/internal/domain/model"
)

var (
	predictLat      float64
	predictLon      float64
	predictRadius   int
	predictLandType string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the land price for one location and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnvironment(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		loc := model.LocationPoint{Latitude: predictLat, Longitude: predictLon}
		result, err := env.Service.Estimate(ctx, model.EstimateRequest{
			Location:     loc.String(),
			LandType:     predictLandType,
			RadiusMeters: predictRadius,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "predict: write result")
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().Float64Var(&predictLat, "lat", 0, "latitude in degrees")
	predictCmd.Flags().Float64Var(&predictLon, "lon", 0, "longitude in degrees")
	predictCmd.Flags().IntVar(&predictRadius, "radius", 5000, "search radius in meters")
	predictCmd.Flags().StringVar(&predictLandType, "land-type", "", "comma separated land use, e.g. Residential,Commercial")
	_ = predictCmd.MarkFlagRequired("lat")
	_ = predictCmd.MarkFlagRequired("lon")
	_ = predictCmd.MarkFlagRequired("land-type")
	rootCmd.AddCommand(predictCmd)
}
