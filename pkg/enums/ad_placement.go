package enums

import "fmt"

// AdPlacement identifies where an ad slot renders in the client.
type AdPlacement string

const (
	AdPlacementBanner  AdPlacement = "banner"
	AdPlacementSidebar AdPlacement = "sidebar"
)

var validAdPlacements = []AdPlacement{
	AdPlacementBanner,
	AdPlacementSidebar,
}

// String implements fmt.Stringer.
func (a AdPlacement) String() string {
	return string(a)
}

// IsValid reports whether the placement is recognized.
func (a AdPlacement) IsValid() bool {
	for _, candidate := range validAdPlacements {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdPlacement converts a raw string into an AdPlacement.
func ParseAdPlacement(value string) (AdPlacement, error) {
	for _, candidate := range validAdPlacements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ad placement %q", value)
}
