package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/seqsift/internal/modules"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List registered detection modules and their pattern keys",
	RunE:  runModulesCmd,
}

func runModulesCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if err := loadPatternPacks(cfg.Patterns.Packs); err != nil {
		return err
	}
	applyModuleSettings(cfg.Patterns.Disabled, cfg.Patterns.Only)

	ms := modules.List()
	for _, m := range ms {
		n := 0
		for _, ps := range m.Patterns {
			n += len(ps)
		}
		name := m.Name
		if name == "" {
			name = m.ID
		}
		fmt.Printf("%-14s %-28s %d key(s), %d pattern(s)\n", m.ID, name, len(m.Patterns), n)
		for _, k := range m.Keys() {
			fmt.Printf("    %s\n", k)
		}
	}
	fmt.Printf("%d module(s) enabled\n", len(ms))
	return nil
}
