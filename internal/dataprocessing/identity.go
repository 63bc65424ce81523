package dataprocessing

import (
	"attendcli/pkg/contracts/domain"
)

// nameSentinels are values of the access-allowed flag column that bleed into
// the name column on mis-shifted rows. They can never be a person's name.
var nameSentinels = map[string]bool{
	"是": true,
	"否": true,
}

// BuildIdentityMap derives the badge-ID → display-name mapping from rows
// where both values are present and the name is not a sentinel. Later rows
// override earlier ones for the same badge ID.
func BuildIdentityMap(events []domain.RawEvent) domain.IdentityMap {
	identity := make(domain.IdentityMap)
	for _, e := range events {
		if e.BadgeID == "" || e.Name == "" || nameSentinels[e.Name] {
			continue
		}
		identity[e.BadgeID] = e.Name
	}
	return identity
}
