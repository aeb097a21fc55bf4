package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-layout/internal/estimate"
	"github.com/jonathan/resume-layout/internal/observability"
	"github.com/jonathan/resume-layout/internal/paginate"
	"github.com/jonathan/resume-layout/internal/types"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Re-run the page split simulation for an existing plan",
	Long:  "Reads a previously produced allocation plan and simulates its two-page layout, reporting page breaks, overflow and any unresolved split defects.",
	RunE:  runSimulate,
}

var (
	simulatePlan    string
	simulateConfig  string
	simulateSkills  string
	simulateOutput  string
	simulateVerbose bool
)

func init() {
	simulateCmd.Flags().StringVarP(&simulatePlan, "plan", "p", "", "Allocation plan JSON file (required)")
	simulateCmd.Flags().StringVarP(&simulateConfig, "config", "c", "", "Layout config JSON file (defaults apply when omitted)")
	simulateCmd.Flags().StringVar(&simulateSkills, "skills", "", "Skills block text file reserved at the top of page one")
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "", "Output JSON file (stdout when omitted)")
	simulateCmd.Flags().BoolVarP(&simulateVerbose, "verbose", "v", false, "Print a formatted layout summary")

	if err := simulateCmd.MarkFlagRequired("plan"); err != nil {
		panic(fmt.Sprintf("failed to mark plan flag as required: %v", err))
	}

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(simulateConfig)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(simulatePlan)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	var plan types.AllocationPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan: %w", err)
	}

	skillsText, err := loadSkills(simulateSkills)
	if err != nil {
		return err
	}

	res := paginate.Simulate(&plan, paginate.Options{
		Budget:                types.PageBudget{PageOneLines: cfg.PageOneLines, PageTwoLines: cfg.PageTwoLines},
		RoleHeaderLines:       estimate.HeaderCost(cfg.RoleHeaderLines),
		EngagementHeaderLines: estimate.HeaderCost(cfg.EngagementHeaderLines),
		ReservedPageOneLines:  estimate.BlockCost(skillsText, cfg.BlockCharsPerLine),
	})

	if simulateVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintPageLayout(res.Layout)
		printer.PrintWarnings(res.Layout.Warnings)
		if res.OverflowLines > 0 {
			fmt.Printf("Overflow: %d lines beyond page two\n", res.OverflowLines)
		}
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	out = append(out, '\n')

	if simulateOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(simulateOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
