package refine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRawData marks the benign "location not found" condition: the
// raw location for a dataset holds no objects, or no columns could be
// read from it.
type ErrNoRawData struct {
	location string
	reason   string
}

func (e *ErrNoRawData) Error() string {
	return fmt.Sprintf("no raw data at %s: %s", e.location, e.reason)
}

// ErrDatasetsFailed converts per-dataset failures into a terminal job
// failure once every dataset has been attempted.
type ErrDatasetsFailed struct {
	Datasets []string
}

func (e *ErrDatasetsFailed) Error() string {
	return fmt.Sprintf("one or more datasets failed: %s", strings.Join(e.Datasets, ", "))
}

// storage errors for absent locations surface in several shapes
// depending on the backend; match the common substrings rather than
// exact messages
var missingLocationPatterns = []string{
	"path does not exist",
	"no such file or directory",
	"not found",
	"nosuchkey",
	"does not exist",
	"no such object",
}

func isMissingLocation(err error) bool {
	var noraw *ErrNoRawData
	if errors.As(err, &noraw) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range missingLocationPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
