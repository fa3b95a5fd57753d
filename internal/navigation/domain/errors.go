package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the umbrella for every recoverable "no result" outcome.
	ErrNotFound = errors.New("not found")

	ErrNodeNotFound = fmt.Errorf("node %w", ErrNotFound)
	ErrPathNotFound = fmt.Errorf("path %w", ErrNotFound)

	ErrInvalidEdge = errors.New("invalid edge")
	ErrInvalidNode = errors.New("invalid node")
)
