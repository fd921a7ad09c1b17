package particle

import "errors"

var (
	// ErrNoBounds indicates Contain was called before SetBounds.
	ErrNoBounds = errors.New("particle: contain called without bounds")

	// ErrCoincidentPositions indicates a gravitating source sits exactly on
	// the particle, so the direction of attraction is undefined.
	ErrCoincidentPositions = errors.New("particle: degenerate gravitation: coincident positions")
)
