package cmd

import (
	"runtime"
	"strings"
	"testing"
)

func TestBuildString(t *testing.T) {
	s := buildString()
	for _, want := range []string{"gatherly", Version, GitCommit, runtime.Version()} {
		if !strings.Contains(s, want) {
			t.Fatalf("build string %q missing %q", s, want)
		}
	}
}
