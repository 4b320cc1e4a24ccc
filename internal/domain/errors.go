package domain

import "errors"

// ErrUnsupportedCity is returned when a city is absent from the provider
// registry. It is the only validation error the aggregation pipeline
// surfaces to clients.
var ErrUnsupportedCity = errors.New("city is not supported")
