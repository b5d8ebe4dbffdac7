// Package board holds the static 40-tile board definition. The table is
// embedded configuration data, loaded once and never mutated.
package board

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

type TileType string

const (
	Go          TileType = "go"
	Property    TileType = "property"
	Railroad    TileType = "railroad"
	Utility     TileType = "utility"
	Chance      TileType = "chance"
	Chest       TileType = "chest"
	Tax         TileType = "tax"
	FreeParking TileType = "free-parking"
	Jail        TileType = "jail"
	GoToJail    TileType = "go-to-jail"
)

// Size is the number of tiles on the board.
const Size = 40

// JailPosition is where jailed players sit.
const JailPosition = 10

// Tile is one entry of the board table.
type Tile struct {
	Position int      `json:"position"`
	Name     string   `json:"name"`
	Type     TileType `json:"type"`
	Group    string   `json:"group,omitempty"`
	Price    int      `json:"price,omitempty"`
	// Rent is the unimproved base rent. For railroads it is the single-owned
	// rent, scaled by how many railroads the owner holds.
	Rent int `json:"rent,omitempty"`
	// MultipliedRent is the rent with 1-4 houses and a hotel, in that order.
	MultipliedRent []int `json:"multiplied_rent,omitempty"`
	Mortgage       int   `json:"mortgage,omitempty"`
	HouseCost      int   `json:"housecost,omitempty"`
	Tax            int   `json:"tax,omitempty"`
}

// Ownable reports whether the tile can be bought and owned.
func (t Tile) Ownable() bool {
	return t.Type == Property || t.Type == Railroad || t.Type == Utility
}

//go:embed properties.json
var propertiesJSON []byte

var (
	loadOnce sync.Once
	tiles    []Tile
	byGroup  map[string][]Tile
)

func load() {
	loadOnce.Do(func() {
		if err := json.Unmarshal(propertiesJSON, &tiles); err != nil {
			panic(fmt.Sprintf("board: bad properties.json: %v", err))
		}
		if len(tiles) != Size {
			panic(fmt.Sprintf("board: expected %d tiles, got %d", Size, len(tiles)))
		}
		byGroup = make(map[string][]Tile)
		for i, t := range tiles {
			if t.Position != i {
				panic(fmt.Sprintf("board: tile %d out of order", t.Position))
			}
			if t.Group != "" {
				byGroup[t.Group] = append(byGroup[t.Group], t)
			}
		}
	})
}

// Get returns the tile at pos.
func Get(pos int) (Tile, error) {
	load()
	if pos < 0 || pos >= Size {
		return Tile{}, fmt.Errorf("board: position %d out of range", pos)
	}
	return tiles[pos], nil
}

// MustGet is Get for positions already known to be on the board.
func MustGet(pos int) Tile {
	t, err := Get(pos)
	if err != nil {
		panic(err)
	}
	return t
}

// Tiles returns the full table in board order.
func Tiles() []Tile {
	load()
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	return out
}

// GroupTiles returns all tiles belonging to a color group.
func GroupTiles(group string) []Tile {
	load()
	out := make([]Tile, len(byGroup[group]))
	copy(out, byGroup[group])
	return out
}

// GroupSize returns how many tiles make up a color group.
func GroupSize(group string) int {
	load()
	return len(byGroup[group])
}

// Ownable reports whether the tile at pos can be owned.
func Ownable(pos int) bool {
	t, err := Get(pos)
	return err == nil && t.Ownable()
}
