package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	old := Version
	Version = "1.2.3"
	defer func() { Version = old }()

	info := GetVersionInfo()
	if info.Version != "1.2.3" {
		t.Fatalf("Version = %q, want 1.2.3", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("GoVersion = %q", info.GoVersion)
	}
	if !strings.Contains(info.String(), "Version: 1.2.3") {
		t.Fatalf("String() = %q", info.String())
	}

	js, err := info.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !strings.Contains(js, `"version": "1.2.3"`) {
		t.Fatalf("JSON() = %s", js)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456789ab" {
		t.Fatalf("shortRevision = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Fatalf("shortRevision = %q", got)
	}
}

func TestStringMarksDirtyTree(t *testing.T) {
	info := Info{Revision: "abc", Modified: true}
	if !strings.Contains(info.String(), "Revision: abc-dirty") {
		t.Fatalf("String() = %q", info.String())
	}
}
