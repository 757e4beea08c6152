package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent_DefaultsToMocha(t *testing.T) {
	assert.Equal(t, "catppuccin-mocha", Current().Name)
}

func TestSetCurrent(t *testing.T) {
	orig := Current()
	defer SetCurrent(orig)

	custom := &Theme{Name: "custom", Primary: "#000000"}
	SetCurrent(custom)
	assert.Same(t, custom, Current())

	SetCurrent(nil)
	assert.Same(t, custom, Current(), "nil is ignored")
}

func TestStyles_BuiltOnce(t *testing.T) {
	th := NewCatppuccinMocha()
	assert.Same(t, th.S(), th.S())
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	assert.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))

	th := NewCatppuccinMocha()
	assert.Equal(t, th.Primary, th.ProgressGradient(0))
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	assert.Equal(t, []uint8{0xcb, 0xa6, 0xf7}, []uint8{r, g, b})

	r, g, b = ParseHexColor("bad")
	assert.Equal(t, []uint8{0, 0, 0}, []uint8{r, g, b})
}

func TestApplyGradient(t *testing.T) {
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
	out := ApplyGradient("ab", "#000000", "#ffffff")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}
