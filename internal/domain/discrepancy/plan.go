package discrepancy

import (
	"cmp"
	"slices"
)

// Plan is the set of writes that turns the current notifications into the desired ones.
type Plan struct {
	Create []Notification
	// Update rows carry the existing ID; is_read is never part of an update.
	Update    []Notification
	Delete    []int64
	Unchanged int
}

// IsEmpty reports whether applying the plan writes nothing.
func (p Plan) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// BuildPlan diffs desired against current. Current rows without a desired
// counterpart are deleted, and so are duplicate rows of one pair.
func BuildPlan(desired, current []Notification) Plan {
	existing := make(map[Pair]Notification, len(current))
	var plan Plan

	for _, n := range current {
		if prev, dup := existing[n.Pair]; dup {
			// keep the oldest row of a pair
			if n.ID < prev.ID {
				existing[n.Pair] = n
				n = prev
			}
			plan.Delete = append(plan.Delete, n.ID)
			continue
		}
		existing[n.Pair] = n
	}

	wanted := make(map[Pair]struct{}, len(desired))
	for _, d := range desired {
		wanted[d.Pair] = struct{}{}

		cur, ok := existing[d.Pair]
		switch {
		case !ok:
			plan.Create = append(plan.Create, d)
		case cur.sameBody(d):
			plan.Unchanged++
		default:
			d.ID = cur.ID
			d.IsRead = cur.IsRead
			d.CreatedAt = cur.CreatedAt
			plan.Update = append(plan.Update, d)
		}
	}

	for pair, cur := range existing {
		if _, ok := wanted[pair]; !ok {
			plan.Delete = append(plan.Delete, cur.ID)
		}
	}

	byPair := func(a, b Notification) int {
		if c := cmp.Compare(a.MandorID, b.MandorID); c != 0 {
			return c
		}
		return cmp.Compare(a.MaterialID, b.MaterialID)
	}
	slices.SortFunc(plan.Create, byPair)
	slices.SortFunc(plan.Update, byPair)
	slices.Sort(plan.Delete)

	return plan
}
