// Package rippletime converts between UTC instants and ripple-epoch seconds.
// The ripple epoch starts at 2000-01-01T00:00:00Z, 946,684,800 seconds after
// the Unix epoch.
package rippletime

import (
	"errors"
	"time"
)

// EpochOffset is the Unix timestamp of the ripple epoch start.
const EpochOffset int64 = 946_684_800

const (
	// FinishAfterOffset is how long after the event show and bonus purses
	// become finishable.
	FinishAfterOffset = 2 * time.Hour

	// BonusCancelAfterOffset is how long after the event an unreleased bonus
	// purse becomes cancellable.
	BonusCancelAfterOffset = 7 * 24 * time.Hour
)

var ErrNotTimezoneAware = errors.New("datetime_must_be_timezone_aware")

// EnsureUTC normalizes an instant to UTC. The zero value stands in for a
// missing or naive timestamp and is rejected.
func EnsureUTC(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, ErrNotTimezoneAware
	}
	return t.UTC(), nil
}

// UnixToRippleEpoch converts Unix seconds to ripple-epoch seconds.
func UnixToRippleEpoch(unixSeconds int64) int64 {
	return unixSeconds - EpochOffset
}

// RippleEpochToUnix converts ripple-epoch seconds to Unix seconds.
func RippleEpochToUnix(rippleSeconds int64) int64 {
	return rippleSeconds + EpochOffset
}

// ToRippleEpoch converts an instant to ripple-epoch seconds.
func ToRippleEpoch(t time.Time) (int64, error) {
	utc, err := EnsureUTC(t)
	if err != nil {
		return 0, err
	}
	return UnixToRippleEpoch(utc.Unix()), nil
}

// FromRippleEpoch converts ripple-epoch seconds back to a UTC instant.
func FromRippleEpoch(rippleSeconds int64) time.Time {
	return time.Unix(RippleEpochToUnix(rippleSeconds), 0).UTC()
}

// ComputeFinishAfter returns the earliest instant an escrow for the given
// event may be finished.
func ComputeFinishAfter(eventUTC time.Time) (time.Time, error) {
	utc, err := EnsureUTC(eventUTC)
	if err != nil {
		return time.Time{}, err
	}
	return utc.Add(FinishAfterOffset), nil
}

// ComputeBonusCancelAfter returns the earliest instant a bonus escrow for the
// given event may be cancelled.
func ComputeBonusCancelAfter(eventUTC time.Time) (time.Time, error) {
	utc, err := EnsureUTC(eventUTC)
	if err != nil {
		return time.Time{}, err
	}
	return utc.Add(BonusCancelAfterOffset), nil
}
