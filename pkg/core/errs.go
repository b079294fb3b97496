package core

import "errors"

var (
	ErrMissingData     = errors.New("required dataset is not loaded")
	ErrMalformedSample = errors.New("malformed sample")
	ErrInvalidSeries   = errors.New("series points must be strictly increasing by date")
	ErrEmptyHierarchy  = errors.New("empty hierarchy")
	ErrUnknownNode     = errors.New("unknown hierarchy node")
	ErrNegativeWeight  = errors.New("negative weight")
)
