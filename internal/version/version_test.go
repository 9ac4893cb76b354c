package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionStrings(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "dev"
	assert.Equal(t, "Freeflow dev", GetShortVersion())
	assert.Contains(t, GetVersionInfo(), "Freeflow dev")

	Version, Commit, Date = "1.2.0", "abc123", "2025-03-01"
	assert.Equal(t, "1.2.0", GetVersion())
	assert.Equal(t, "Freeflow 1.2.0 (commit: abc123, built: 2025-03-01, "+goosArch()+")", GetVersionInfo())
}

func goosArch() string { return runtime.GOOS + "/" + runtime.GOARCH }
