package matchwatch

import (
	"fmt"
	"strings"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"
)

type ChangeKind string

const (
	ChangeNew    ChangeKind = "new"
	ChangeStatus ChangeKind = "status"
	ChangeMat    ChangeKind = "mat"
)

// Change is one difference between two observations of a tournament's mat
// assignments.
type Change struct {
	Kind  ChangeKind
	Match tw.Match
	// Previous is the earlier observation, nil for ChangeNew.
	Previous *tw.Match
}

func wrestlerName(w *tw.Wrestler) string {
	if w == nil || w.Name() == "" {
		return "TBD"
	}
	return w.Name()
}

func versus(m tw.Match) string {
	return fmt.Sprintf("%s vs %s", wrestlerName(m.Wrestler1), wrestlerName(m.Wrestler2))
}

func (c Change) Message() string {
	switch c.Kind {
	case ChangeNew:
		return fmt.Sprintf("[New Match] %s on Mat %d", versus(c.Match), c.Match.Mat)
	case ChangeStatus:
		return fmt.Sprintf(
			"[Status] %s (Mat %d) is now %s",
			versus(c.Match), c.Match.Mat, strings.ToUpper(string(c.Match.Status)),
		)
	case ChangeMat:
		previousMat := 0
		if c.Previous != nil {
			previousMat = c.Previous.Mat
		}
		return fmt.Sprintf(
			"Mat change for %s match %d: Mat %d → Mat %d (%s)",
			c.Match.WeightClass, c.Match.Bout, previousMat, c.Match.Mat, versus(c.Match),
		)
	}
	return fmt.Sprintf("[%s] %s", c.Kind, versus(c.Match))
}

// snapshotKey identifies a bout across observations, bout numbers are only
// unique within a weight class. Rows without a bout number fall back to their
// mat.
type snapshotKey struct {
	bout   int
	weight string
	mat    int
}

func keyOf(m tw.Match) snapshotKey {
	key := snapshotKey{bout: m.Bout, weight: m.WeightClass}
	if m.Bout == 0 {
		key.mat = m.Mat
	}
	return key
}

type snapshot map[snapshotKey]tw.Match

func newSnapshot(matches []tw.Match) snapshot {
	s := make(snapshot, len(matches))
	for _, m := range matches {
		s[keyOf(m)] = m
	}
	return s
}

// Diff returns the changes from previous to current in the order of current.
// A match that both moved mats and changed status yields both changes,
// status first.
func Diff(previous, current []tw.Match) []Change {
	return diff(newSnapshot(previous), current)
}

func diff(previous snapshot, current []tw.Match) []Change {
	var changes []Change
	for _, m := range current {
		prev, seen := previous[keyOf(m)]
		if !seen {
			changes = append(changes, Change{Kind: ChangeNew, Match: m})
			continue
		}
		if prev.Status != m.Status {
			changes = append(changes, Change{Kind: ChangeStatus, Match: m, Previous: &prev})
		}
		if prev.Mat != m.Mat {
			changes = append(changes, Change{Kind: ChangeMat, Match: m, Previous: &prev})
		}
	}
	return changes
}
