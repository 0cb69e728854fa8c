package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestId(t *testing.T) {
	assert.NoError(t, Id(1))
	assert.ErrorIs(t, Id(0), ErrId)
	assert.ErrorIs(t, Id(-5), ErrId)
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login("leo"))
	assert.ErrorIs(t, Login(" \t"), ErrLogin)
}

func TestThemes(t *testing.T) {
	assert.NoError(t, Themes(nil))
	assert.NoError(t, Themes([]string{"cats"}))
	assert.ErrorIs(t, Themes([]string{"cats", "dogs"}), ErrThemes)
}
