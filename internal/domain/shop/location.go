package shop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidLocation = errors.New("shop: invalid location key")

// LocationKey canonically identifies the physical container backing a shop.
// Format: world,x,y,z with integer block coordinates.
type LocationKey string

func LocationKeyOf(world string, x, y, z int) LocationKey {
	return LocationKey(fmt.Sprintf("%s,%d,%d,%d", world, x, y, z))
}

// ParseLocationKey validates a raw key and returns it in canonical form.
func ParseLocationKey(raw string) (LocationKey, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 || parts[0] == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
	}
	coords := make([]int, 3)
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
		}
		coords[i] = n
	}
	return LocationKeyOf(parts[0], coords[0], coords[1], coords[2]), nil
}

func (k LocationKey) String() string { return string(k) }

// World returns the world component of the key, or "" for a malformed key.
func (k LocationKey) World() string {
	world, _, ok := strings.Cut(string(k), ",")
	if !ok {
		return ""
	}
	return world
}
