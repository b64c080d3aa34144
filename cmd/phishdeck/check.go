package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phishdeck/phishdeck/internal/config"
	"github.com/phishdeck/phishdeck/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check connectivity to the platform engine",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	client := engine.NewClient(cfg.Engine.BaseURL, cfg.Engine.APIToken, cfg.Engine.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("engine unreachable at %s: %w", cfg.Engine.BaseURL, err)
	}

	fmt.Printf("engine: %s", health.Status)
	if health.Version != "" {
		fmt.Printf(" (version %s)", health.Version)
	}
	fmt.Println()

	campaigns, err := client.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("list campaigns: %w", err)
	}
	fmt.Printf("campaigns: %d\n", len(campaigns))

	return nil
}
