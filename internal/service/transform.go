package service

import (
	"fmt"
	"time"

	"github.com/EpicMandM/dewi-reservations/internal/models"
)

// civilLayout is the provider's "date time" form once date and time are
// joined with a space, e.g. "2024-05-01 18:30:00".
const civilLayout = "2006-01-02 15:04:05"

// Transform converts upstream reservations into UTC-anchored reservations,
// reading each date and time in loc. The batch is all-or-nothing: one
// unparsable reservation fails the whole call with ErrInconsistency.
func Transform(raw []UpstreamReservation, loc *time.Location) ([]models.Reservation, error) {
	out := make([]models.Reservation, 0, len(raw))
	for _, r := range raw {
		start, err := ParseLocal(r.Model.Date+" "+r.Model.StartTime, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: reservation %d start: %v", ErrInconsistency, r.ID, err)
		}
		end, err := ParseLocal(r.Model.Date+" "+r.Model.EndTime, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: reservation %d end: %v", ErrInconsistency, r.ID, err)
		}
		out = append(out, models.Reservation{
			ID:    r.ID,
			Name:  r.Name,
			Start: start,
			End:   end,
		})
	}
	return out, nil
}

// ParseLocal parses a civil "YYYY-MM-DD HH:MM:SS" value as wall-clock time in
// loc and returns the UTC instant. Wall-clock times skipped by a forward DST
// shift, or repeated by a backward one, have no single instant and are
// rejected.
func ParseLocal(value string, loc *time.Location) (time.Time, error) {
	// time.Parse tolerates a trailing fractional second the layout lacks.
	if len(value) != len(civilLayout) {
		return time.Time{}, fmt.Errorf("%q does not match %q", value, civilLayout)
	}
	wall, err := time.Parse(civilLayout, value)
	if err != nil {
		return time.Time{}, err
	}

	// Offsets in effect a day either side cover any transition on this date.
	var matches []time.Time
	seen := make(map[int]bool, 2)
	for _, probe := range []time.Time{wall.Add(-24 * time.Hour), wall, wall.Add(24 * time.Hour)} {
		_, offset := probe.In(loc).Zone()
		if seen[offset] {
			continue
		}
		seen[offset] = true

		candidate := wall.Add(-time.Duration(offset) * time.Second)
		if sameWallClock(candidate.In(loc), wall) {
			matches = append(matches, candidate.UTC())
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return time.Time{}, fmt.Errorf("%q does not exist in %s", value, loc)
	default:
		return time.Time{}, fmt.Errorf("%q is ambiguous in %s", value, loc)
	}
}

func sameWallClock(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ah, amin, as := a.Clock()
	bh, bmin, bs := b.Clock()
	return ay == by && am == bm && ad == bd && ah == bh && amin == bmin && as == bs
}
