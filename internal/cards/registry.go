// Package cards holds the starter card set and the deck list loader. Card
// definitions are built by constructors registered under the card's printed
// name, so every lookup returns a fresh definition and no game can reach
// another game's state through the registry.
package cards

import (
	"fmt"
	"sort"

	"github.com/openduel/duel-server-go/internal/game"
)

// Registry maps card names to definition constructors. Populated in init
// rather than a composite literal: BloodArtist's trigger calls Lookup, and a
// static initializer would form an initialization cycle with it.
var Registry map[string]func() *game.CardDefinition

func init() {
	Registry = map[string]func() *game.CardDefinition{
		"Plains":   Plains,
		"Island":   Island,
		"Swamp":    Swamp,
		"Mountain": Mountain,
		"Forest":   Forest,

		"Grizzly Bears":           GrizzlyBears,
		"Hill Giant":              HillGiant,
		"Elvish Visionary":        ElvishVisionary,
		"Blood Artist":            BloodArtist,
		"Falkenrath Exterminator": FalkenrathExterminator,
		"Blood Pet":               BloodPet,

		"Rod of Ruin":              RodOfRuin,
		"Honden of Cleansing Fire": HondenOfCleansingFire,

		"Lightning Bolt":     LightningBolt,
		"Lava Spike":         LavaSpike,
		"Doom Blade":         DoomBlade,
		"Relentless Assault": RelentlessAssault,
	}
}

// Lookup resolves a card name to a fresh definition. The signature matches
// game.CardLookup so the registry can back deck building and replay
// rebuilds directly.
func Lookup(name string) (*game.CardDefinition, bool) {
	ctor, ok := Registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// MustCard resolves a card name and panics when it is not registered. Meant
// for fixed deck tables and demos where the name is a literal.
func MustCard(name string) *game.CardDefinition {
	def, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("cards: unknown card %q", name))
	}
	return def
}

// Names returns every registered card name in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
