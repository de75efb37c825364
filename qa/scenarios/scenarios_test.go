package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldops/leadrouter/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestParseTier(t *testing.T) {
	if parseTier("HOT") != model.TierHot {
		t.Error("HOT not parsed")
	}
	if parseTier("WARM") != model.TierWarm {
		t.Error("WARM not parsed")
	}
	if parseTier("anything-else") != model.TierCold {
		t.Error("unknown tier should default to COLD")
	}
}

func TestParseRepStatus(t *testing.T) {
	if parseRepStatus("OUT_OF_OFFICE") != model.RepOutOfOffice {
		t.Error("OUT_OF_OFFICE not parsed")
	}
	if parseRepStatus("") != model.RepAvailable {
		t.Error("empty status should default to AVAILABLE")
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
