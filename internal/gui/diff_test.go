package gui

import "testing"

func TestDiffLineTag(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{line: "diff --git a/main.go b/main.go", want: "diffHeader"},
		{line: "+added line", want: "diffAdd"},
		{line: "-removed line", want: "diffDel"},
		{line: "+++ b/main.go", want: ""},
		{line: "--- a/main.go", want: ""},
		{line: " context line", want: ""},
		{line: "@@ -1,3 +1,3 @@", want: ""},
	}
	for _, tc := range tests {
		if got := diffLineTag(tc.line); got != tc.want {
			t.Fatalf("diffLineTag(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestDiffPathFromLine(t *testing.T) {
	path, ok := diffPathFromLine("diff --git a/internal/git/service.go b/internal/git/service.go")
	if !ok || path != "internal/git/service.go" {
		t.Fatalf("unexpected path: %q ok=%v", path, ok)
	}
	path, ok = diffPathFromLine(`diff --git "a/with space.go" "b/with space.go"`)
	if !ok || path != "with space.go" {
		t.Fatalf("unexpected quoted path: %q ok=%v", path, ok)
	}
	if _, ok := diffPathFromLine("+added"); ok {
		t.Fatalf("non-header line should not match")
	}
}

func TestDiffLineCode(t *testing.T) {
	code, offset, ok := diffLineCode("+x := 1")
	if !ok || code != "x := 1" || offset != 1 {
		t.Fatalf("unexpected result: %q %d %v", code, offset, ok)
	}
	if _, _, ok := diffLineCode("+++ b/main.go"); ok {
		t.Fatalf("file header should not be treated as code")
	}
	if _, _, ok := diffLineCode("\\ No newline at end of file"); ok {
		t.Fatalf("no-newline marker should not be treated as code")
	}
	if _, _, ok := diffLineCode("@@ -1 +1 @@"); ok {
		t.Fatalf("hunk header should not be treated as code")
	}
}
