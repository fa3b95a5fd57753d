package domain

import "errors"

var (
	ErrMetricNotFound = errors.New("department metric not found")
	ErrInvalidMetric  = errors.New("invalid department metric")
)
