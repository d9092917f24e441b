package state

import (
	"context"
)

// ShouldProcess decides whether a discovered file needs to be
// (re)transferred:
//   - never seen before: process
//   - seen, but the stored timestamp is missing: process (unknown
//     prior state is treated as stale, re-processing is safe where
//     silent loss is not)
//   - otherwise: process only when the candidate timestamp is
//     strictly newer than the stored one
//
// Timestamps compare as strings; this is correct because both sides
// are serialized with a fixed UTC offset (see Timestamp).
func ShouldProcess(ctx context.Context, store Store, fileID, modifiedTime string) (bool, error) {
	entry, err := store.Get(ctx, fileID)
	if err != nil {
		return false, err
	}

	if entry == nil {
		return true, nil
	}
	if entry.ModifiedTime == "" {
		return true, nil
	}

	return modifiedTime > entry.ModifiedTime, nil
}
