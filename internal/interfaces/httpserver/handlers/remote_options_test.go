package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionBitsSortedByKey(t *testing.T) {
	opts := map[string]string{"width": "640", "autoplay": "1", "loop": "0", "height": "360"}
	want := []string{"autoplay=1", "height=360", "loop=0", "width=640"}

	for i := 0; i < 20; i++ {
		assert.Equal(t, want, optionBits(opts))
	}
	assert.Empty(t, optionBits(nil))
}
