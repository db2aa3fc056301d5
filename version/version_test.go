package version

import (
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "dev"

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
}

func TestShortContainsVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "dev"

	sv := Short()
	if !strings.HasPrefix(sv, "dev") {
		t.Errorf("expected short version to start with 'dev', got %q", sv)
	}
}

func TestShortWithRelease(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "1.0.0"

	sv := Short()
	if !strings.HasPrefix(sv, "1.0.0") {
		t.Errorf("expected short version to start with '1.0.0', got %q", sv)
	}
}
