package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	headers := Catalog()
	require.Len(t, headers, 23)

	var required []int
	for i, h := range headers {
		assert.Equal(t, i+1, h.ID, "catalog must be ordered by id")
		assert.False(t, h.Selected)
		if h.Required {
			required = append(required, h.ID)
		}
	}
	assert.Equal(t, []int{1, 2, 7, 8, 9, 11, 14}, required)

	assert.Equal(t, "Role / Identity", headers[0].Label)
	assert.Equal(t, "Rules & Constraints", headers[7].Label)
	assert.Equal(t, "Output Structure Parser", headers[22].Label)
	assert.True(t, headers[22].RequiresInput)
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	headers := Catalog()
	headers[0].Label = "changed"
	assert.Equal(t, "Role / Identity", Catalog()[0].Label)
}

func TestDefaultHeaders(t *testing.T) {
	for _, h := range DefaultHeaders() {
		assert.Equal(t, h.Required, h.Selected, "header %d", h.ID)
		assert.Empty(t, h.InputValue)
	}
}

func TestLookupHeader(t *testing.T) {
	h, ok := LookupHeader(OutputParserHeaderID)
	require.True(t, ok)
	assert.True(t, h.RequiresInput)

	_, ok = LookupHeader(0)
	assert.False(t, ok)
}

func TestSelectedOnly(t *testing.T) {
	got := SelectedOnly(DefaultHeaders())
	require.Len(t, got, 7)
	for _, h := range got {
		assert.True(t, h.Required)
	}
}
