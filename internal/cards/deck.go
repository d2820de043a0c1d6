package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openduel/duel-server-go/internal/game"
)

// DeckEntry is one line of a deck list: a card name and how many copies.
type DeckEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Deck is a named deck list as stored on disk.
type Deck struct {
	Name  string      `yaml:"name"`
	Cards []DeckEntry `yaml:"cards"`
}

// Size returns the total number of cards in the list.
func (d *Deck) Size() int {
	total := 0
	for _, e := range d.Cards {
		total += e.Count
	}
	return total
}

// Validate checks that the deck is named, non-empty, and that every entry
// names a registered card with a positive count.
func (d *Deck) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("deck has no name")
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("deck %q has no cards", d.Name)
	}
	for _, e := range d.Cards {
		if e.Count < 1 {
			return fmt.Errorf("deck %q: card %q has count %d", d.Name, e.Name, e.Count)
		}
		if _, ok := Registry[e.Name]; !ok {
			return fmt.Errorf("deck %q: unknown card %q", d.Name, e.Name)
		}
	}
	return nil
}

// CardNames expands the list into one name per copy, in list order.
func (d *Deck) CardNames() []string {
	names := make([]string, 0, d.Size())
	for _, e := range d.Cards {
		for i := 0; i < e.Count; i++ {
			names = append(names, e.Name)
		}
	}
	return names
}

// Definitions resolves the expanded list against the registry. Copies of
// the same entry share one definition.
func (d *Deck) Definitions() ([]*game.CardDefinition, error) {
	defs := make([]*game.CardDefinition, 0, d.Size())
	for _, e := range d.Cards {
		def, ok := Lookup(e.Name)
		if !ok {
			return nil, fmt.Errorf("deck %q: unknown card %q", d.Name, e.Name)
		}
		for i := 0; i < e.Count; i++ {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

// LoadDeck reads and validates one deck list file.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	var deck Deck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

// LoadDeckDir loads every .yaml and .yml deck list in a directory, keyed by
// deck name.
func LoadDeckDir(dir string) (map[string]*Deck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck directory: %w", err)
	}
	decks := make(map[string]*Deck)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		deck, err := LoadDeck(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := decks[deck.Name]; dup {
			return nil, fmt.Errorf("duplicate deck name %q in %s", deck.Name, entry.Name())
		}
		decks[deck.Name] = deck
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("no deck lists found in %s", dir)
	}
	return decks, nil
}
