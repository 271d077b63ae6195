package lifecycle

import (
	"samovar/internal/domain"
	"samovar/internal/errors"
)

// transitions is the allowed manual status-change table. Operators may
// move an order between any two distinct statuses, including out of a
// terminal status as an override, with one exception: nothing may
// re-enter pending. Pending is a creation-only state; re-entering it
// would leave an order with no auto-transition horizon.
var transitions = buildTransitionTable()

func buildTransitionTable() map[domain.Status]map[domain.Status]bool {
	table := make(map[domain.Status]map[domain.Status]bool, len(domain.Statuses))
	for _, from := range domain.Statuses {
		table[from] = make(map[domain.Status]bool, len(domain.Statuses))
		for _, to := range domain.Statuses {
			if from == to || to == domain.StatusPending {
				continue
			}
			table[from][to] = true
		}
	}
	return table
}

// ValidateTransition checks a manual status change against the
// allowed-transitions table.
func ValidateTransition(from, to domain.Status) error {
	if !from.Valid() {
		return errors.NewValidationError("unknown current status", errors.ValidationDetail{
			Field:   "status",
			Message: "current status is not a known order status",
		})
	}
	if !to.Valid() {
		return errors.NewValidationError("unknown target status", errors.ValidationDetail{
			Field:   "status",
			Message: "target status is not a known order status",
		})
	}
	if !transitions[from][to] {
		return errors.NewInvalidTransitionError(string(from), string(to))
	}
	return nil
}
