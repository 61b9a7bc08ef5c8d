package extract

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner fakes pdftoppm. When out is non-nil it writes <prefix>.png.
type stubRunner struct {
	out      []byte
	err      error
	gotName  string
	gotArgs  []string
	callsRun int
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.callsRun++
	r.gotName = name
	r.gotArgs = args
	if r.err != nil {
		return nil, []byte("stub failure"), r.err
	}
	if r.out != nil {
		prefix := args[len(args)-1]
		if wErr := os.WriteFile(prefix+".png", r.out, 0o600); wErr != nil {
			return nil, nil, wErr
		}
	}
	return nil, nil, nil
}

func TestRasterizeFirstPage(t *testing.T) {
	runner := &stubRunner{out: []byte("png-bytes")}
	r := NewRasterizer(RasterConfig{DPI: 200}, nil)
	r.runner = runner

	img, err := r.RasterizeFirstPage(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), img)

	assert.Equal(t, "pdftoppm", runner.gotName)
	// only the first page is rendered
	assert.Contains(t, runner.gotArgs, "-singlefile")
	assert.Equal(t, []string{"-f", "1", "-l", "1"}, runner.gotArgs[:4])
	assert.Contains(t, runner.gotArgs, "200")
}

func TestRasterizeProcessFailure(t *testing.T) {
	r := NewRasterizer(RasterConfig{}, nil)
	r.runner = &stubRunner{err: errors.New("exit status 1")}

	_, err := r.RasterizeFirstPage(context.Background(), []byte("%PDF"))
	assert.ErrorIs(t, err, ErrRasterizationFailed)
}

func TestRasterizeNoOutputFile(t *testing.T) {
	// runner succeeds but never writes the output file
	r := NewRasterizer(RasterConfig{}, nil)
	r.runner = &stubRunner{}

	_, err := r.RasterizeFirstPage(context.Background(), []byte("%PDF"))
	assert.ErrorIs(t, err, ErrRasterizationFailed)
}
