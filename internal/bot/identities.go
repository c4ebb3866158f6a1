package bot

import (
	"fmt"

	"github.com/google/uuid"
)

// Identity is one bot profile. DeviceID is stable across restarts so the
// backing account is reused rather than recreated.
type Identity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

// IdentityPool hands out bot profiles and answers membership queries. Pools
// are constructed explicitly and passed to whoever seats bots.
type IdentityPool struct {
	identities []Identity
	byUserID   map[string]Identity
}

var identityNamespace = uuid.MustParse("8f7a1c2e-5d3b-4e6f-9a8c-0b1d2e3f4a5b")

// DefaultIdentities is the built-in profile set used when no external pool
// is configured. Device IDs derive deterministically from the username.
func DefaultIdentities() []Identity {
	names := []struct {
		username, display, difficulty string
	}{
		{"bot_maverick", "Maverick", "easy"},
		{"bot_willow", "Willow", "medium"},
		{"bot_atlas", "Atlas", "medium"},
		{"bot_sable", "Sable", "hard"},
		{"bot_juniper", "Juniper", "easy"},
		{"bot_orion", "Orion", "hard"},
	}
	out := make([]Identity, 0, len(names))
	for i, n := range names {
		out = append(out, Identity{
			DeviceID:    uuid.NewSHA1(identityNamespace, []byte(n.username)).String(),
			Username:    n.username,
			DisplayName: n.display,
			Difficulty:  n.difficulty,
			AvatarIndex: i,
		})
	}
	return out
}

// NewIdentityPool builds a pool from the given profiles. An empty slice
// yields a pool backed by DefaultIdentities.
func NewIdentityPool(identities []Identity) *IdentityPool {
	if len(identities) == 0 {
		identities = DefaultIdentities()
	}
	p := &IdentityPool{
		identities: identities,
		byUserID:   make(map[string]Identity, len(identities)),
	}
	for _, id := range identities {
		if id.UserID != "" {
			p.byUserID[id.UserID] = id
		}
	}
	return p
}

// Bind records the server-assigned user ID for a provisioned profile.
func (p *IdentityPool) Bind(deviceID, userID, username string) {
	for i := range p.identities {
		if p.identities[i].DeviceID == deviceID {
			p.identities[i].UserID = userID
			p.identities[i].Username = username
			p.byUserID[userID] = p.identities[i]
			return
		}
	}
}

// At returns a profile by index, wrapping around the pool size.
func (p *IdentityPool) At(index int) Identity {
	if len(p.identities) == 0 {
		return Identity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
		}
	}
	return p.identities[index%len(p.identities)]
}

// All returns the pool's profiles.
func (p *IdentityPool) All() []Identity {
	return p.identities
}

// IsBot reports whether userID belongs to a provisioned bot.
func (p *IdentityPool) IsBot(userID string) bool {
	_, ok := p.byUserID[userID]
	return ok
}

// Lookup returns the profile bound to userID.
func (p *IdentityPool) Lookup(userID string) (Identity, bool) {
	id, ok := p.byUserID[userID]
	return id, ok
}
