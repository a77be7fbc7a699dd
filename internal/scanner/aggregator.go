package scanner

import (
	"sort"
	"sync"
)

// member pairs a file with its discovery sequence number so group ordering
// survives out-of-order hash completion.
type member struct {
	fi  FileInfo
	seq uint64
}

// Aggregator owns the digest-to-files mapping for the duration of one scan.
// The engine serializes Record calls through a single collector goroutine;
// the mutex guards the map against any stray concurrent use.
type Aggregator struct {
	mu     sync.Mutex
	groups map[Digest][]member
}

// NewAggregator creates an empty Aggregator. It is never reused across scans.
func NewAggregator() *Aggregator {
	return &Aggregator{
		groups: make(map[Digest][]member),
	}
}

// Record appends fi to the group for digest, creating the group if absent.
// seq is the walker's discovery sequence number for fi.
func (a *Aggregator) Record(fi FileInfo, seq uint64, digest Digest) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.groups[digest] = append(a.groups[digest], member{fi: fi, seq: seq})
}

// Groups returns every group with two or more members. Members are ordered
// by discovery order; groups are ordered by their first member's discovery
// order so repeated scans of an unchanged tree produce stable output.
// Single-member groups are never surfaced.
func (a *Aggregator) Groups() []DuplicateGroup {
	a.mu.Lock()
	defer a.mu.Unlock()

	type ordered struct {
		group DuplicateGroup
		first uint64
	}

	var result []ordered
	for digest, members := range a.groups {
		if len(members) < 2 {
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			return members[i].seq < members[j].seq
		})

		files := make([]FileInfo, len(members))
		for i, m := range members {
			files[i] = m.fi
		}

		result = append(result, ordered{
			group: DuplicateGroup{Digest: digest, Members: files},
			first: members[0].seq,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].first < result[j].first
	})

	groups := make([]DuplicateGroup, len(result))
	for i, o := range result {
		groups[i] = o.group
	}
	return groups
}
