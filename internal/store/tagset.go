// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "github.com/google/uuid"

// TagDelta reports how many associations a reconcile actually wrote.
// A second reconcile with the same desired set is a zero delta.
type TagDelta struct {
	Connected    int
	Disconnected int
}

// diffTagSets computes the minimal connect/disconnect delta that moves a
// guideline's tag set from current to desired: toConnect = desired − current,
// toDisconnect = current − desired. Duplicates in either input are ignored;
// the result depends only on set membership, never on order.
func diffTagSets(current, desired []uuid.UUID) (toConnect, toDisconnect []uuid.UUID) {
	currentSet := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	desiredSet := make(map[uuid.UUID]struct{}, len(desired))
	for _, id := range desired {
		if _, dup := desiredSet[id]; dup {
			continue
		}
		desiredSet[id] = struct{}{}
		if _, have := currentSet[id]; !have {
			toConnect = append(toConnect, id)
		}
	}

	for _, id := range current {
		if _, want := desiredSet[id]; !want {
			toDisconnect = append(toDisconnect, id)
		}
	}
	return toConnect, toDisconnect
}
