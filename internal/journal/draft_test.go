package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntensitiesSetAndGet(t *testing.T) {
	in := DefaultIntensities()
	for _, d := range Dimensions {
		v, err := in.Get(d)
		require.NoError(t, err)
		assert.Equal(t, DefaultIntensity, v)
	}

	require.NoError(t, in.Set(DimensionClarity, 0))
	require.NoError(t, in.Set(DimensionSocial, 10))
	assert.Equal(t, 0, in.Clarity)
	assert.Equal(t, 10, in.Social)

	assert.ErrorIs(t, in.Set(DimensionPhysical, 42), ErrOutOfRange)
	assert.Equal(t, DefaultIntensity, in.Physical)

	_, err := in.Get("sleep")
	assert.ErrorIs(t, err, ErrUnknownDimension)
}

func TestDraftCloneDoesNotAlias(t *testing.T) {
	d := NewDraft()
	d.toggle("Awe")

	c := d.Clone()
	c.SelectedEmotions[0] = "Shock"
	assert.Equal(t, "Awe", d.SelectedEmotions[0])
}

func TestDraftWordCount(t *testing.T) {
	d := NewDraft()
	assert.Zero(t, d.WordCount())
	d.Text = "  slept well,\n felt   rested "
	assert.Equal(t, 4, d.WordCount())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "writing", StepWriting.String())
	assert.Equal(t, "step(7)", Step(7).String())
}
