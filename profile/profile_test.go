package profile

import (
	"slices"
	"testing"
)

func TestProfiler_EmptyModeIsNoop(t *testing.T) {
	stop := Profiler{Path: t.TempDir()}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", stop)
	}

	stop.Stop()
	stop.Stop()
}

func TestProfiler_UnknownMode(t *testing.T) {
	stop := Profiler{Mode: "bogus", Path: t.TempDir()}.Start()
	defer stop.Stop()

	if _, ok := stop.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", stop)
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("Modes() = %v without %s tag", modes, Tag)
		}

		return
	}

	if !slices.IsSorted(modes) || !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %v", modes)
	}
}
