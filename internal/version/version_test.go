package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = oldV, oldC, oldD
	})
}

func TestGetInfo(t *testing.T) {
	withVersion(t, "0.3.1", "abc", "2026-01-01")

	info, err := GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "0.3.1", info.Version)
	assert.Equal(t, uint64(3), info.SemVer.Minor())
	assert.NotEmpty(t, info.GoVersion)

	withVersion(t, "not-a-version", "", "")
	_, err = GetInfo()
	assert.Error(t, err)
}

func TestGetFormattedVersion(t *testing.T) {
	withVersion(t, "0.1.0", "0123456789abcdef", "2026-10-19")

	formatted := GetFormattedVersion()
	assert.Equal(t, "gameterm v0.1.0, commit 0123456, built 2026-10-19", formatted)

	withVersion(t, "0.1.0", "unknown", "unknown")
	assert.Equal(t, "gameterm v0.1.0", GetFormattedVersion())

	withVersion(t, "bogus", "unknown", "unknown")
	assert.True(t, strings.HasSuffix(GetFormattedVersion(), "(invalid version)"))
}
