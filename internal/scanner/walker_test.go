package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/dupescan/internal/testutil"
)

func collectWalk(t *testing.T, w *Walker, root string) ([]FileInfo, []SkippedFile) {
	t.Helper()

	var files []FileInfo
	var skipped []SkippedFile
	err := w.Walk(context.Background(), root,
		func(fi FileInfo) { files = append(files, fi) },
		func(sf SkippedFile) { skipped = append(skipped, sf) })
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	return files, skipped
}

func TestWalkerVisitsNestedFiles(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("top.txt", []byte("top"))
	f.CreateFile("a/mid.txt", []byte("mid"))
	f.CreateFile("a/b/c/deep.txt", []byte("deep"))

	files, skipped := collectWalk(t, NewWalker(0, nil), f.RootDir)

	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3", len(files))
	}

	seen := make(map[string]bool)
	for _, fi := range files {
		seen[filepath.Base(fi.Path)] = true
		if fi.Size == 0 {
			t.Errorf("file %s has zero size", fi.Path)
		}
	}
	for _, name := range []string{"top.txt", "mid.txt", "deep.txt"} {
		if !seen[name] {
			t.Errorf("file %s not visited", name)
		}
	}
}

func TestWalkerDeterministicOrder(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("b.txt", []byte("b"))
	f.CreateFile("a.txt", []byte("a"))
	f.CreateFile("sub/z.txt", []byte("z"))
	f.CreateFile("sub/y.txt", []byte("y"))

	w := NewWalker(0, nil)
	first, _ := collectWalk(t, w, f.RootDir)
	second, _ := collectWalk(t, w, f.RootDir)

	if len(first) != len(second) {
		t.Fatalf("walk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].Path, second[i].Path)
		}
	}
}

func TestWalkerDoesNotFollowDirectorySymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateDir("real")
	f.CreateFile("real/inner.txt", []byte("inner"))
	f.CreateSymlink(target, "link-to-dir")

	files, _ := collectWalk(t, NewWalker(0, nil), f.RootDir)

	inner := 0
	linkSeen := false
	for _, fi := range files {
		if filepath.Base(fi.Path) == "inner.txt" {
			inner++
		}
		if filepath.Base(fi.Path) == "link-to-dir" {
			linkSeen = true
		}
	}

	if inner != 1 {
		t.Errorf("inner.txt visited %d times, want 1 (no descent through the link)", inner)
	}
	if !linkSeen {
		t.Error("symlink itself was not reported as a file")
	}
}

func TestWalkerMinSizeFilter(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("small.txt", []byte("hi"))
	f.CreateFile("big.txt", make([]byte, 4096))

	files, _ := collectWalk(t, NewWalker(1024, nil), f.RootDir)

	if len(files) != 1 {
		t.Fatalf("found %d files, want 1", len(files))
	}
	if filepath.Base(files[0].Path) != "big.txt" {
		t.Errorf("kept %s, want big.txt", files[0].Path)
	}
}

func TestWalkerExcludePatterns(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("keep.txt", []byte("keep"))
	f.CreateFile("drop.tmp", []byte("drop"))
	f.CreateFile("node_modules/dep.js", []byte("dep"))

	files, _ := collectWalk(t, NewWalker(0, []string{"*.tmp", "node_modules"}), f.RootDir)

	if len(files) != 1 {
		t.Fatalf("found %d files, want 1: %v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "keep.txt" {
		t.Errorf("kept %s, want keep.txt", files[0].Path)
	}
}

func TestWalkerUnreadableDirIsSkippedNotFatal(t *testing.T) {
	testutil.RequireNotRoot(t)

	f := testutil.NewFixture(t)
	f.CreateFile("ok.txt", []byte("ok"))
	locked := f.CreateDir("locked")
	f.CreateFile("locked/secret.txt", []byte("secret"))
	f.Chmod(locked, 0000)

	files, skipped := collectWalk(t, NewWalker(0, nil), f.RootDir)

	if len(files) != 1 {
		t.Fatalf("found %d files, want 1", len(files))
	}
	if len(skipped) == 0 {
		t.Fatal("expected a skipped entry for the unreadable directory")
	}
	if skipped[0].Reason != SkipAccess {
		t.Errorf("skip reason = %v, want SkipAccess", skipped[0].Reason)
	}
}

func TestWalkerCancellation(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a.txt", []byte("a"))
	f.CreateFile("b.txt", []byte("b"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWalker(0, nil).Walk(ctx, f.RootDir,
		func(FileInfo) {}, func(SkippedFile) {})
	if err == nil {
		t.Fatal("Walk with cancelled context expected error, got nil")
	}
}

func TestWalkerCountMatchesWalk(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFile("a.txt", []byte("aaaa"))
	f.CreateFile("sub/b.txt", []byte("bbbb"))
	f.CreateFile("sub/deep/c.txt", []byte("cccc"))
	f.CreateFile("tiny.txt", []byte("x"))

	w := NewWalker(2, nil)

	files, _ := collectWalk(t, w, f.RootDir)
	count, err := w.Count(context.Background(), f.RootDir)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}

	if int64(len(files)) != count {
		t.Errorf("Count = %d, Walk emitted %d", count, len(files))
	}
}
