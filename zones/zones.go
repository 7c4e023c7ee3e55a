package zones

import "fmt"

type Kind uint8

const (
	KindLeaf      Kind = 0
	KindComposite Kind = 1
)

// Zone is either a leaf (an ordered list of landmark indices, the order being the
// polygon winding) or a composite (a named union of other zones).
type Zone struct {
	Name    string
	Kind    Kind
	indices []int
	parts   []Zone
}

func Leaf(name string, indices ...int) Zone {
	return Zone{Name: name, Kind: KindLeaf, indices: indices}
}

func Composite(name string, parts ...Zone) Zone {
	return Zone{Name: name, Kind: KindComposite, parts: parts}
}

// Indices returns a leaf's indices in order, or the deduplicated union of all
// sub-zone indices of a composite (first occurrence order).
func (z Zone) Indices() []int {
	if z.Kind == KindLeaf {
		result := make([]int, len(z.indices))
		copy(result, z.indices)
		return result
	}
	seen := map[int]bool{}
	result := []int{}
	for _, part := range z.parts {
		for _, idx := range part.Indices() {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			result = append(result, idx)
		}
	}
	return result
}

// find looks the name up in this zone and, recursively, in its sub-zones
func (z Zone) find(name string) (Zone, bool) {
	if z.Name == name {
		return z, true
	}
	for _, part := range z.parts {
		if found, ok := part.find(name); ok {
			return found, true
		}
	}
	return Zone{}, false
}

// Catalog maps zone names to geometry and concerns to zones. It is read-only after
// construction and safe for concurrent use.
type Catalog struct {
	zones        []Zone
	concerns     []string
	concernZones map[string][]string
	defaultZones []string
}

type ConcernZones struct {
	Concern string
	Zones   []string
}

func NewCatalog(zones []Zone, concerns []ConcernZones, defaultZones []string) *Catalog {
	c := &Catalog{
		zones:        zones,
		concernZones: make(map[string][]string, len(concerns)),
		defaultZones: defaultZones,
	}
	for _, cz := range concerns {
		c.concerns = append(c.concerns, cz.Concern)
		c.concernZones[cz.Concern] = cz.Zones
	}
	return c
}

// ZonesForConcern returns the zone names of a concern. Unknown concerns get the
// default zones, so every concern renders something.
func (c *Catalog) ZonesForConcern(concern string) []string {
	zones, ok := c.concernZones[concern]
	if !ok {
		zones = c.defaultZones
	}
	result := make([]string, len(zones))
	copy(result, zones)
	return result
}

// IndicesForZone resolves a zone (or a sub-zone of a composite) to landmark indices.
// Unknown names resolve to an empty slice.
func (c *Catalog) IndicesForZone(name string) []int {
	if zone, ok := c.Zone(name); ok {
		return zone.Indices()
	}
	return []int{}
}

func (c *Catalog) Zone(name string) (Zone, bool) {
	for _, z := range c.zones {
		if found, ok := z.find(name); ok {
			return found, true
		}
	}
	return Zone{}, false
}

// Concerns returns the concerns in catalog order
func (c *Catalog) Concerns() []string {
	result := make([]string, len(c.concerns))
	copy(result, c.concerns)
	return result
}

// Validate checks that every zone referenced by a concern exists and that all
// indices fit a detector returning landmarkCount points.
func (c *Catalog) Validate(landmarkCount int) error {
	for _, z := range c.zones {
		for _, idx := range z.Indices() {
			if idx < 0 || idx >= landmarkCount {
				return fmt.Errorf("zone %s: landmark index %d out of range [0, %d)", z.Name, idx, landmarkCount)
			}
		}
	}
	names := append(c.Concerns(), "")
	for _, concern := range names {
		for _, zone := range c.ZonesForConcern(concern) {
			if _, ok := c.Zone(zone); !ok {
				return fmt.Errorf("concern %q references unknown zone %s", concern, zone)
			}
		}
	}
	return nil
}
