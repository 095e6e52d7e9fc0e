package modelo

// Presence is the bit flag recorded while hydrating a Model.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers to Presence flags. The instance root is
// recorded under "/".
type PresenceMap map[string]Presence

// clone returns a copy so callers cannot mutate the Model's own map.
func (pm PresenceMap) clone() PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		out[k] = v
	}
	return out
}
