package retention

import (
	"fmt"

	"github.com/fenilsonani/dupescan/internal/scanner"
)

// Policy deterministically selects which members of a duplicate group to
// remove. Implementations are pure: no I/O, no side effects, and they never
// select every member of a group.
type Policy interface {
	Name() string
	SelectDeletions(group scanner.DuplicateGroup) []scanner.FileInfo
}

// ForName returns the policy registered under name. An empty name selects
// the default keep-first policy.
func ForName(name string) (Policy, error) {
	switch name {
	case "", "first":
		return KeepFirst{}, nil
	case "oldest":
		return KeepOldest{}, nil
	case "newest":
		return KeepNewest{}, nil
	default:
		return nil, fmt.Errorf("unknown retention policy: %s", name)
	}
}

// KeepFirst retains the first member by discovery order and marks all later
// members for removal. This is the default policy.
type KeepFirst struct{}

func (KeepFirst) Name() string { return "first" }

func (KeepFirst) SelectDeletions(group scanner.DuplicateGroup) []scanner.FileInfo {
	if len(group.Members) < 2 {
		return nil
	}
	out := make([]scanner.FileInfo, len(group.Members)-1)
	copy(out, group.Members[1:])
	return out
}

// KeepOldest retains the member with the earliest modification time, with
// discovery order breaking ties.
type KeepOldest struct{}

func (KeepOldest) Name() string { return "oldest" }

func (KeepOldest) SelectDeletions(group scanner.DuplicateGroup) []scanner.FileInfo {
	return dropKeeper(group, func(candidate, keeper scanner.FileInfo) bool {
		return candidate.ModTime.Before(keeper.ModTime)
	})
}

// KeepNewest retains the member with the latest modification time, with
// discovery order breaking ties.
type KeepNewest struct{}

func (KeepNewest) Name() string { return "newest" }

func (KeepNewest) SelectDeletions(group scanner.DuplicateGroup) []scanner.FileInfo {
	return dropKeeper(group, func(candidate, keeper scanner.FileInfo) bool {
		return candidate.ModTime.After(keeper.ModTime)
	})
}

// dropKeeper returns all members except the one preferred by better. The
// strict comparison means the earliest-discovered member wins ties. Output
// preserves discovery order.
func dropKeeper(group scanner.DuplicateGroup, better func(candidate, keeper scanner.FileInfo) bool) []scanner.FileInfo {
	if len(group.Members) < 2 {
		return nil
	}

	keep := 0
	for i := 1; i < len(group.Members); i++ {
		if better(group.Members[i], group.Members[keep]) {
			keep = i
		}
	}

	out := make([]scanner.FileInfo, 0, len(group.Members)-1)
	for i, m := range group.Members {
		if i == keep {
			continue
		}
		out = append(out, m)
	}
	return out
}
