package handlers

import "errors"

// ErrCapacityMismatch возвращается, если имена вместимости переданы с разными значениями
var ErrCapacityMismatch = errors.New("maxGuests, maxGroupSize and todaysTourist.maxGuests must be equal")

// ResolveCapacity сводит синонимы вместимости к одному значению.
// nil означает, что вместимость не передана.
func ResolveCapacity(values ...*int) (*int, error) {
	var resolved *int
	for _, v := range values {
		if v == nil {
			continue
		}
		if resolved != nil && *resolved != *v {
			return nil, ErrCapacityMismatch
		}
		resolved = v
	}
	return resolved, nil
}
