// Command deckcheck lints every deck list in a directory against the card
// registry. Unlike the server, which refuses to boot on a single bad list,
// deckcheck reads every file and reports all problems at once.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openduel/duel-server-go/internal/cards"
)

func main() {
	log.SetFlags(0)

	dir := "decks"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	fmt.Println("=== Deck Check ===")
	fmt.Printf("Directory: %s\n", dir)
	fmt.Printf("Registry: %d cards\n\n", len(cards.Names()))

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read deck directory: %v", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Fatalf("no deck lists found in %s", dir)
	}

	passed := 0
	failed := 0
	seen := make(map[string]string)

	for _, file := range files {
		deck, err := cards.LoadDeck(filepath.Join(dir, file))
		if err != nil {
			fmt.Printf("✗ %s: %v\n", file, err)
			failed++
			continue
		}
		if prev, dup := seen[deck.Name]; dup {
			fmt.Printf("✗ %s: deck name %q already used by %s\n", file, deck.Name, prev)
			failed++
			continue
		}
		seen[deck.Name] = file
		fmt.Printf("✓ %s: %q, %d cards\n", file, deck.Name, deck.Size())
		passed++
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
