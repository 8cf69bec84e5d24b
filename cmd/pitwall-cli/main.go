// Package main provides a CLI client for the Pitwall prediction service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/client"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/models"
)

var (
	configFile string
	serviceURL string
	cfg        *config.Config
	cliLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serviceURL, "url", "u", "", "Service base URL (overrides config)")
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(statusCmd)
}

var rootCmd = &cobra.Command{
	Use:   "pitwall-cli",
	Short: "Query a running Pitwall prediction service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if serviceURL != "" {
			cfg.Client.BaseURL = serviceURL
		}
		cliLog = logger.NewLogger("warn")
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <laps.json>",
	Short: "Predict the optimal pit window from a lap data file",
	Long: `Reads a pit stop request from a JSON file and prints the predicted
pit window. The file holds the request payload sent to POST /predict/pitstop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req models.PitStopRequest
		if err := readRequest(args[0], &req); err != nil {
			return err
		}

		c := client.NewCachedClient(&cfg.Client, cliLog)
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := c.PredictPitStop(ctx, &req)
		if err != nil {
			return err
		}

		fmt.Printf("Optimal pit lap:  %d\n", resp.OptimalPitLap)
		fmt.Printf("Confidence:       %.3f\n", resp.Confidence)
		fmt.Printf("Degradation rate: %.4f s/lap\n", resp.DegradationRate)
		fmt.Printf("R-squared:        %.3f\n", resp.RSquared)
		fmt.Printf("Laps analyzed:    %d (%s)\n", resp.LapsAnalyzed, resp.TireCompound)
		fmt.Printf("Recommendation:   %s\n", resp.Recommendation)
		if len(resp.PredictedLapTimes) > 0 {
			fmt.Printf("Predicted times:  %v\n", resp.PredictedLapTimes)
		}
		return nil
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact <standings.json>",
	Short: "Project the position impact of a pit stop",
	Long: `Reads a strategy impact request from a JSON file and prints the
projected standings effect. The file holds the payload sent to
POST /strategy/impact.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req models.StrategyImpactRequest
		if err := readRequest(args[0], &req); err != nil {
			return err
		}

		c := client.NewCachedClient(&cfg.Client, cliLog)
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := c.ProjectStrategy(ctx, &req)
		if err != nil {
			return err
		}

		fmt.Printf("Current position:   P%d\n", resp.CurrentPosition)
		fmt.Printf("Projected position: P%d (%+d)\n", resp.ProjectedPosition, resp.PositionChange)
		fmt.Printf("Time lost in pit:   %.3fs\n", resp.TimeLostInPit)
		fmt.Printf("Fresh tire gain:    %.3fs\n", resp.TimeGainedFreshTires)
		fmt.Printf("Net time impact:    %.3fs\n", resp.NetTimeImpact)
		for _, d := range resp.AheadOf {
			fmt.Printf("  ahead of  P%d %s by %.3fs\n", d.ProjectedPosition, d.DriverID, d.Gap)
		}
		for _, d := range resp.BehindOf {
			fmt.Printf("  behind    P%d %s by %.3fs\n", d.ProjectedPosition, d.DriverID, d.Gap)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check prediction service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.NewCachedClient(&cfg.Client, cliLog)
		defer c.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fmt.Printf("Service %s: ", cfg.Client.BaseURL)
		if err := c.HealthCheck(ctx); err != nil {
			fmt.Println("UNAVAILABLE")
			return err
		}
		fmt.Println("ONLINE")

		hits, misses, ratio := c.GetCacheStats()
		fmt.Printf("Cache: %d hits, %d misses (%.1f%%)\n", hits, misses, ratio*100)
		return nil
	},
}

func readRequest(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
