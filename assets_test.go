package formation

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSContainsRepeaterScript(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "formation.js")
	if err != nil {
		t.Fatalf("expected script to be readable: %v", err)
	}
	for _, hook := range []string{"data-repeater", "data-container", "data-template", "data-parent"} {
		if !strings.Contains(string(data), hook) {
			t.Fatalf("expected script to reference %s", hook)
		}
	}
}

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "formation.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".formation-field-invalid") {
		t.Fatalf("expected stylesheet to style invalid fields")
	}
}
