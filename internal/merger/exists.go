package merger

import "github.com/agent-king/bibliography/internal/titles"

// Tier identifies which rule recognised a candidate as already known.
type Tier int

const (
	TierNone Tier = iota
	// TierExact: the candidate key is a known key.
	TierExact
	// TierBaseKey: the candidate's edition-stripped base is a known key.
	TierBaseKey
	// TierSharedBase: candidate and a known title strip to the same base,
	// and that base is longer than the configured minimum.
	TierSharedBase
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierBaseKey:
		return "base_key"
	case TierSharedBase:
		return "shared_base"
	default:
		return "none"
	}
}

// Projection is the normalized view of the catalog's known titles: every key
// and every key's edition-stripped base.
type Projection struct {
	keys  map[string]struct{}
	bases map[string]struct{}
}

// NewProjection normalizes known once so that lookups are cheap.
func NewProjection(known []string) *Projection {
	p := &Projection{
		keys:  make(map[string]struct{}, len(known)),
		bases: make(map[string]struct{}, len(known)),
	}
	for _, title := range known {
		key := titles.Normalize(title)
		if key == "" {
			continue
		}
		p.keys[key] = struct{}{}
		p.bases[titles.BaseTitle(key)] = struct{}{}
	}
	return p
}

// Len returns the number of distinct known keys.
func (p *Projection) Len() int {
	return len(p.keys)
}

type existenceRule struct {
	tier  Tier
	match func(key, base string, p *Projection, minBaseLength int) bool
}

// existenceRules are evaluated in order; the first match wins.
var existenceRules = []existenceRule{
	{
		tier: TierExact,
		match: func(key, _ string, p *Projection, _ int) bool {
			_, ok := p.keys[key]
			return ok
		},
	},
	{
		tier: TierBaseKey,
		match: func(key, base string, p *Projection, _ int) bool {
			if base == key {
				return false
			}
			_, ok := p.keys[base]
			return ok
		},
	},
	{
		tier: TierSharedBase,
		match: func(_, base string, p *Projection, minBaseLength int) bool {
			if len([]rune(base)) <= minBaseLength {
				return false
			}
			_, ok := p.bases[base]
			return ok
		},
	},
}

// Exists reports whether a normalized key is already represented in the
// projection, and by which rule.
func Exists(key string, p *Projection, minBaseLength int) (bool, Tier) {
	if key == "" || p == nil {
		return false, TierNone
	}

	base := titles.BaseTitle(key)
	for _, rule := range existenceRules {
		if rule.match(key, base, p, minBaseLength) {
			return true, rule.tier
		}
	}
	return false, TierNone
}
