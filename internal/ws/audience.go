package ws

import "github.com/sgmi/production-backend/internal/domain"

// Audience selects which live connections receive a broadcast.
type Audience struct {
	name string
	test func(userID string, role domain.Role) bool
}

// AudienceAll delivers to every live connection.
var AudienceAll = Audience{name: "all"}

// AudienceBatchOperators delivers batch-level events to everyone
// working the production floor.
var AudienceBatchOperators = Audience{
	name: "batch_operators",
	test: func(_ string, role domain.Role) bool {
		return role == domain.RoleOperator || role == domain.RoleManager || role == domain.RoleDirector
	},
}

// AudienceDirectors delivers supervisory events.
var AudienceDirectors = Audience{
	name: "directors",
	test: func(_ string, role domain.Role) bool {
		return role == domain.RoleDirector || role == domain.RoleManager
	},
}

// CustomAudience builds an audience from an arbitrary predicate over
// the connection's principal.
func CustomAudience(pred func(userID string, role domain.Role) bool) Audience {
	return Audience{name: "custom", test: pred}
}

// Includes reports whether a connection with the given principal
// belongs to the audience.
func (a Audience) Includes(userID string, role domain.Role) bool {
	if a.test == nil {
		return true
	}
	return a.test(userID, role)
}
