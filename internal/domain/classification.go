package domain

import "fmt"

func ValidateSeats(seatsTotal, seatsUnused int) error {
	if seatsTotal < 1 {
		return NewValidationError("seats_total", fmt.Sprintf("must be at least 1, got %d", seatsTotal))
	}
	if seatsUnused < 0 {
		return NewValidationError("seats_unused", fmt.Sprintf("must be non-negative, got %d", seatsUnused))
	}
	if seatsUnused > seatsTotal {
		return NewValidationError("seats_unused", fmt.Sprintf("must not exceed seats_total (%d > %d)", seatsUnused, seatsTotal))
	}

	return nil
}

// Classify derives the waste status from seat data. It never yields
// StatusCritical; that value is reserved for an external inactivity signal.
func Classify(seatsTotal, seatsUnused int) (Status, error) {
	if err := ValidateSeats(seatsTotal, seatsUnused); err != nil {
		return "", err
	}

	if seatsUnused > 0 {
		return StatusZombie, nil
	}

	return StatusActive, nil
}

// Reclassify is Classify for an existing record. Cancelled is terminal and
// is returned unchanged once the seat data is valid.
func Reclassify(current Status, seatsTotal, seatsUnused int) (Status, error) {
	status, err := Classify(seatsTotal, seatsUnused)
	if err != nil {
		return "", err
	}

	if current == StatusCancelled {
		return StatusCancelled, nil
	}

	return status, nil
}

// ResolveStatus settles a status supplied alongside seat data. Active and
// zombie always follow the seats. Critical is kept only while seats are
// unused, and cancelled requires none.
func ResolveStatus(requested Status, seatsTotal, seatsUnused int) (Status, error) {
	derived, err := Classify(seatsTotal, seatsUnused)
	if err != nil {
		return "", err
	}

	switch requested {
	case "", StatusActive, StatusZombie:
		return derived, nil
	case StatusCritical:
		if derived != StatusZombie {
			return "", NewValidationError("status", "critical requires unused seats")
		}
		return StatusCritical, nil
	case StatusCancelled:
		if seatsUnused != 0 {
			return "", NewValidationError("seats_unused", fmt.Sprintf("must be 0 when cancelled, got %d", seatsUnused))
		}
		return StatusCancelled, nil
	default:
		return "", NewValidationError("status", fmt.Sprintf("unsupported value %q", requested))
	}
}

// TransitionStatus resolves the status of an edited record and the unused
// seat count it must be stored with. Leaving cancelled is rejected.
func TransitionStatus(current, requested Status, seatsTotal, seatsUnused int) (Status, int, error) {
	if current != StatusCancelled {
		status, err := ResolveStatus(requested, seatsTotal, seatsUnused)
		return status, seatsUnused, err
	}

	if requested != "" && requested != StatusCancelled {
		return "", 0, NewValidationError("status", fmt.Sprintf("cancelled is terminal, cannot move to %q", requested))
	}
	if err := ValidateSeats(seatsTotal, 0); err != nil {
		return "", 0, err
	}

	return StatusCancelled, 0, nil
}
