package catalog

import "fmt"

// Tier controls which tools are exposed. Tiers are cumulative: extended
// includes everything in core, complete includes everything in extended.
type Tier int

const (
	TierCore Tier = iota
	TierExtended
	TierComplete
)

// String returns the configuration name of the tier.
func (t Tier) String() string {
	switch t {
	case TierCore:
		return "core"
	case TierExtended:
		return "extended"
	case TierComplete:
		return "complete"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier parses a tier name from configuration. An empty string yields
// the default tier (core).
func ParseTier(s string) (Tier, error) {
	switch s {
	case "", "core":
		return TierCore, nil
	case "extended":
		return TierExtended, nil
	case "complete":
		return TierComplete, nil
	default:
		return TierCore, fmt.Errorf("unknown tool tier %q (supported: core, extended, complete)", s)
	}
}
