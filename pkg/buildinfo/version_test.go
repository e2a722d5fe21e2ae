package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "4f2a9c1"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	}

	got := fromBuildInfo(Info{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	want := Info{Version: "v0.3.1", Commit: "4f2a9c1", Date: "2026-10-01T12:00:00Z"}
	if got != want {
		t.Errorf("fromBuildInfo() = %+v, want %+v", got, want)
	}

	ldflags := Info{Version: "v1.0.0", Commit: "abc", Date: "2026-01-01"}
	if got := fromBuildInfo(ldflags, bi); got != ldflags {
		t.Errorf("ldflags values overridden: %+v", got)
	}

	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	if got := fromBuildInfo(Info{Version: "dev"}, devel); got.Version != "dev" {
		t.Errorf("(devel) build version = %q, want dev", got.Version)
	}
}

func TestTemplate(t *testing.T) {
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version ") || !strings.Contains(tmpl, "commit: ") {
		t.Errorf("Template() = %q", tmpl)
	}
}
