package resample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeDefault(t *testing.T) {
	r, err := ParseRecipe("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRecipe(), r)
}

func TestParseRecipe(t *testing.T) {
	r, err := ParseRecipe("vMsX:1f:120:28:90:105:50")
	require.NoError(t, err)
	assert.Equal(t, QualityVeryHigh, r.Quality)
	assert.Equal(t, PhaseMinimum, r.Phase)
	assert.True(t, r.Steep)
	assert.Equal(t, ModeMax, r.Mode)
	assert.Equal(t, uint64(0x1f), r.Flags)
	assert.Equal(t, 120.0, r.Attenuation)
	assert.Equal(t, 28.0, r.Precision)
	assert.Equal(t, 90.0, r.PassbandEnd)
	assert.Equal(t, 105.0, r.StopbandStart)
	assert.Equal(t, 50.0, r.PhaseResponse)
}

func TestParseRecipePartial(t *testing.T) {
	r, err := ParseRecipe("mE::96")
	require.NoError(t, err)
	assert.Equal(t, QualityMedium, r.Quality)
	assert.Equal(t, PhaseLinear, r.Phase)
	assert.Equal(t, ModeException, r.Mode)
	assert.Zero(t, r.Flags)
	assert.Equal(t, 96.0, r.Attenuation)
	assert.Zero(t, r.Precision)
}

func TestParseRecipeErrors(t *testing.T) {
	for _, s := range []string{"z", "h:zz", "h::-1", "h:::40", "h::::99:90", "h:0:0:0:0:0:0:0"} {
		_, err := ParseRecipe(s)
		assert.ErrorIs(t, err, ErrInvalidRecipe, s)
	}
}

func TestResamplerLifecycle(t *testing.T) {
	r := New(nil)
	_, on := r.Recipe()
	assert.False(t, on)

	assert.ErrorIs(t, r.Init("bogus"), ErrInvalidRecipe)
	require.NoError(t, r.Init("q"))
	recipe, on := r.Recipe()
	assert.True(t, on)
	assert.Equal(t, QualityQuick, recipe.Quality)
	assert.ErrorIs(t, r.Init(""), ErrAlreadyInitialized)

	require.NoError(t, r.Close())
	_, on = r.Recipe()
	assert.False(t, on)
}
