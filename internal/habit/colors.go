package habit

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Palette is the fixed set of habit colors. The repeated cyan and violet are
// intentional: they weight the random pick the same way the web app did.
var Palette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#10b981", // emerald
	"#f59e0b", // amber
	"#8b5cf6", // purple
	"#06b6d4", // sky
}

// ColorPolicy picks the color of a new habit.
type ColorPolicy interface {
	Pick(name string) string
}

// RandomColors picks uniformly from Palette. A nil Rand uses the global source.
type RandomColors struct {
	Rand *rand.Rand
}

func (r RandomColors) Pick(string) string {
	if r.Rand == nil {
		return Palette[rand.IntN(len(Palette))]
	}
	return Palette[r.Rand.IntN(len(Palette))]
}

// HashColors derives the color from the habit name, so the same name always
// gets the same color.
type HashColors struct{}

func (HashColors) Pick(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// CycleColors walks the palette in order.
type CycleColors struct {
	next int
}

func (c *CycleColors) Pick(string) string {
	color := Palette[c.next%len(Palette)]
	c.next++
	return color
}

func ParseColorPolicy(name string) (ColorPolicy, error) {
	switch name {
	case "", "random":
		return RandomColors{}, nil
	case "hash":
		return HashColors{}, nil
	case "cycle":
		return &CycleColors{}, nil
	}
	return nil, fmt.Errorf("unknown color policy %q (want random, hash or cycle)", name)
}
