package ansi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetColorProfileRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	profile, err := GetColorProfile()
	require.NoError(t, err)
	require.Equal(t, ColorProfileUncolored, profile)
	require.False(t, profile.Enabled())
}

func TestGetColorProfileRespectsCliColorForce(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CI", "1") // forces stdoutIsTTY() false, so osColorProfile would be uncolored
	t.Setenv("CLICOLOR_FORCE", "1")
	profile, err := GetColorProfile()
	require.NoError(t, err)
	require.Equal(t, ColorProfileANSI, profile)
	require.True(t, profile.Enabled())
}

func TestColorProfileEnabled(t *testing.T) {
	require.True(t, ColorProfileTrueColor.Enabled())
	require.True(t, ColorProfileANSI256.Enabled())
	require.True(t, ColorProfileANSI.Enabled())
	require.False(t, ColorProfileUncolored.Enabled())
}
