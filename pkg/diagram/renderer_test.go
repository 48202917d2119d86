package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestD2_MissingBinary(t *testing.T) {
	r := D2{Binary: "definitely-not-a-real-d2-binary"}
	err := r.Render("a {\n}\n", "/tmp/out.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering /tmp/out.png")
}

func TestD2_SuccessfulExit(t *testing.T) {
	// "true" ignores stdin and arguments and exits 0, standing in for
	// a well-behaved renderer.
	r := D2{Binary: "true"}
	assert.NoError(t, r.Render("a {\n}\n", t.TempDir()+"/out.png"))
}

func TestD2_NonZeroExit(t *testing.T) {
	r := D2{Binary: "false"}
	assert.Error(t, r.Render("a {\n}\n", "/tmp/out.png"))
}
