package retention

import (
	"testing"
	"time"

	"github.com/fenilsonani/dupescan/internal/scanner"
)

func groupOf(members ...scanner.FileInfo) scanner.DuplicateGroup {
	return scanner.DuplicateGroup{Members: members}
}

func fileAt(path string, age time.Duration) scanner.FileInfo {
	return scanner.FileInfo{Path: path, Size: 10, ModTime: time.Now().Add(-age)}
}

func paths(files []scanner.FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func TestForName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"default", "", "first", false},
		{"first", "first", "first", false},
		{"oldest", "oldest", "oldest", false},
		{"newest", "newest", "newest", false},
		{"unknown", "largest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ForName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ForName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && p.Name() != tt.want {
				t.Errorf("ForName(%q).Name() = %q, want %q", tt.input, p.Name(), tt.want)
			}
		})
	}
}

func TestKeepFirstNeverSelectsOriginal(t *testing.T) {
	g := groupOf(
		fileAt("/one", 0),
		fileAt("/two", time.Hour),
		fileAt("/three", 2*time.Hour),
	)

	deletions := KeepFirst{}.SelectDeletions(g)

	got := paths(deletions)
	want := []string{"/two", "/three"}
	if len(got) != len(want) {
		t.Fatalf("deletions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("deletion[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestKeepFirstEveryOtherMemberExactlyOnce(t *testing.T) {
	g := groupOf(fileAt("/a", 0), fileAt("/b", 0), fileAt("/c", 0), fileAt("/d", 0))

	deletions := KeepFirst{}.SelectDeletions(g)
	if len(deletions) != len(g.Members)-1 {
		t.Fatalf("got %d deletions, want %d", len(deletions), len(g.Members)-1)
	}

	seen := make(map[string]int)
	for _, d := range deletions {
		seen[d.Path]++
	}
	if seen["/a"] != 0 {
		t.Error("retained member /a was selected for deletion")
	}
	for _, p := range []string{"/b", "/c", "/d"} {
		if seen[p] != 1 {
			t.Errorf("member %s selected %d times, want 1", p, seen[p])
		}
	}
}

func TestKeepFirstTooSmallGroup(t *testing.T) {
	if got := (KeepFirst{}).SelectDeletions(groupOf(fileAt("/only", 0))); got != nil {
		t.Errorf("deletions for 1-member group = %v, want nil", got)
	}
}

func TestKeepOldest(t *testing.T) {
	g := groupOf(
		fileAt("/newer", time.Hour),
		fileAt("/oldest", 48*time.Hour),
		fileAt("/newest", 0),
	)

	got := paths(KeepOldest{}.SelectDeletions(g))
	want := []string{"/newer", "/newest"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("deletions = %v, want %v", got, want)
	}
}

func TestKeepNewest(t *testing.T) {
	g := groupOf(
		fileAt("/newer", time.Hour),
		fileAt("/oldest", 48*time.Hour),
		fileAt("/newest", 0),
	)

	got := paths(KeepNewest{}.SelectDeletions(g))
	want := []string{"/newer", "/oldest"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("deletions = %v, want %v", got, want)
	}
}

func TestModTimeTieFallsBackToDiscoveryOrder(t *testing.T) {
	ts := time.Now()
	a := scanner.FileInfo{Path: "/first-seen", Size: 1, ModTime: ts}
	b := scanner.FileInfo{Path: "/second-seen", Size: 1, ModTime: ts}

	for _, p := range []Policy{KeepOldest{}, KeepNewest{}} {
		got := paths(p.SelectDeletions(groupOf(a, b)))
		if len(got) != 1 || got[0] != "/second-seen" {
			t.Errorf("%s: deletions = %v, want [/second-seen]", p.Name(), got)
		}
	}
}

func TestPoliciesArePure(t *testing.T) {
	g := groupOf(fileAt("/a", 0), fileAt("/b", time.Hour), fileAt("/c", 2*time.Hour))
	before := paths(g.Members)

	KeepOldest{}.SelectDeletions(g)
	KeepNewest{}.SelectDeletions(g)
	KeepFirst{}.SelectDeletions(g)

	after := paths(g.Members)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("group mutated: %v -> %v", before, after)
		}
	}
}
