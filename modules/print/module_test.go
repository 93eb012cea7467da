package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/framecore/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint_SortsFields(t *testing.T) {
	var buf bytes.Buffer
	body, err := Build(context.Background(), &registry.Env{Out: &buf}, &Input{
		Message: "frame done",
		Fields:  map[string]string{"zeta": "1", "alpha": "2"},
	})
	require.NoError(t, err)

	body(context.Background())
	assert.Equal(t, "frame done\n      alpha = \"2\"\n      zeta = \"1\"\n", buf.String())
}

func TestPrint_Registers(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	w, ok := r.Work("print")
	require.True(t, ok)
	assert.IsType(t, &Input{}, w.NewInput())
	assert.NoError(t, r.Validate(context.Background()))
}
