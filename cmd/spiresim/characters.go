package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiresim/spiresim/internal/content"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "List playable characters",
	Long:  `Shows all characters registered in the simulator.`,
	Run:   runCharacters,
}

func runCharacters(cmd *cobra.Command, args []string) {
	ids := content.CharacterIDs()

	if len(ids) == 0 {
		fmt.Println("No characters available.")
		return
	}

	fmt.Println("Playable characters:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, id := range ids {
		if len(id) > maxIDLen {
			maxIDLen = len(id)
		}
	}

	fmt.Printf("  %-*s  %-12s  %-6s  %-6s  %s\n", maxIDLen, "ID", "Name", "HP", "Gold", "Deck")
	fmt.Printf("  %-*s  %-12s  %-6s  %-6s  %s\n", maxIDLen, "--", "----", "--", "----", "----")

	for _, id := range ids {
		char, err := content.CharacterByID(id)
		if err != nil {
			continue
		}
		fmt.Printf("  %-*s  %-12s  %-6d  %-6d  %d cards\n",
			maxIDLen, char.ID, char.Name, char.MaxHP, char.Gold, len(char.Deck))
	}

	fmt.Println()
	fmt.Println("Run 'spiresim play --character <id>' to play one.")
}
