package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List difficulty presets",
	Long:  `Shows every difficulty preset with the speed settings it produces from the loaded config.`,
	Args:  cobra.NoArgs,
	Run:   runPresets,
}

func runPresets(_ *cobra.Command, _ []string) {
	base, _, err := loadConfig()
	if err != nil {
		base = config.DefaultSnakeConfig()
	}

	fmt.Println("Difficulty presets:")
	fmt.Println()

	// Print header
	fmt.Printf("  %-8s  %-8s  %-8s  %s\n", "Preset", "Start", "Floor", "Per point")
	fmt.Printf("  %-8s  %-8s  %-8s  %s\n", "------", "-----", "-----", "---------")

	for _, p := range config.Presets() {
		cfg := base
		config.ApplyPreset(&cfg, p)
		fmt.Printf("  %-8s  %-8s  %-8s  %s\n", p,
			fmt.Sprintf("%dms", cfg.Speed.StartMS),
			fmt.Sprintf("%dms", cfg.Speed.FloorMS),
			fmt.Sprintf("%dms", cfg.Speed.PenaltyMS),
		)
	}

	fmt.Println()
	fmt.Println("Run 'snake play --difficulty <preset>' to use one.")
}
