// Package transfer implements the grow-only window arithmetic for cross-site
// relocations. Deciding how a new assignment range folds into the existing
// transfer windows is pure; the transfer service persists the outcome.
package transfer

import (
	"github.com/Fred49680/PDC-sub001/internal/domain"
)

// bridgeGapDays is the largest gap (in days) between a window and a new range
// that still merges into the window instead of opening a second one.
const bridgeGapDays = 1

// Action says what the caller must do with the store.
type Action int

const (
	// ActionNone: an existing window already covers the requested range.
	ActionNone Action = iota

	// ActionExtend: grow the window identified by WindowID to Range.
	ActionExtend

	// ActionCreate: no window is close enough; open a new one over Range.
	ActionCreate
)

// Decision is the outcome of resolving a requested range against the
// existing windows for one (resource, origin, destination) triple.
type Decision struct {
	Action   Action
	WindowID string
	Range    domain.DateRange
}

// Resolve decides how the requested range folds into the existing windows.
// A window that covers the range wins outright. Otherwise the first window
// overlapping or within bridgeGapDays of the range is extended to the union
// of both (never shrunk). A range disjoint from every window by more than
// the bridge gap opens a separate window, so unrelated moves are never
// bridged together.
func Resolve(existing []*domain.TransferRecord, want domain.DateRange) Decision {
	var best *domain.TransferRecord
	for _, w := range existing {
		if w.Range().Covers(want) {
			return Decision{Action: ActionNone, WindowID: w.ID, Range: w.Range()}
		}
		if w.Range().GapDays(want) <= bridgeGapDays {
			if best == nil || w.Range().Start.Before(best.Range().Start) {
				best = w
			}
		}
	}
	if best != nil {
		return Decision{
			Action:   ActionExtend,
			WindowID: best.ID,
			Range:    best.Range().Union(want),
		}
	}
	return Decision{Action: ActionCreate, Range: want}
}
