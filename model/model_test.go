package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/neurlang/goenhance/spectral"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame() *spectral.Frame {
	f := spectral.NewFrame(2, 3, 4)
	for i := range f.Real {
		f.Real[i] = float64(i)
		f.Imag[i] = -float64(i) / 2
	}
	return f
}

func TestIdentity(t *testing.T) {
	in := testFrame()
	out, err := Identity{}.Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out.Real[0] = 42
	assert.Equal(t, 0.0, in.Real[0], "estimate must not alias its input")
}

func TestGain(t *testing.T) {
	in := testFrame()
	out, err := Gain(0.5).Estimate(in)
	require.NoError(t, err)
	require.NoError(t, CheckShape(in, out))
	assert.Equal(t, 5.0, out.Real[10])
	assert.Equal(t, -2.5, out.Imag[10])
	assert.Equal(t, 10.0, in.Real[10])
}

func TestFunc(t *testing.T) {
	var called bool
	m := Func(func(in *spectral.Frame) (*spectral.Frame, error) {
		called = true
		return in, nil
	})
	_, err := m.Estimate(testFrame())
	require.NoError(t, err)
	assert.True(t, called)
}

func TestCheckShape(t *testing.T) {
	in := testFrame()

	assert.NoError(t, CheckShape(in, in.Clone()))
	assert.ErrorIs(t, CheckShape(in, nil), ErrShapeMismatch)
	assert.ErrorIs(t, CheckShape(in, spectral.NewFrame(2, 4, 4)), ErrShapeMismatch)

	short := in.Clone()
	short.Imag = short.Imag[:5]
	assert.ErrorIs(t, CheckShape(in, short), ErrShapeMismatch)
}

func TestTensorLayout(t *testing.T) {
	in := testFrame()
	data := toTensor(in)
	require.Len(t, data, 2*in.Len())

	// row 1 starts after row 0's real and imaginary planes
	plane := in.Frames * in.Bins
	assert.Equal(t, float32(in.Real[0]), data[0])
	assert.Equal(t, float32(in.Imag[0]), data[plane])
	assert.Equal(t, float32(in.Real[plane]), data[2*plane])
	assert.Equal(t, float32(in.Imag[plane+1]), data[3*plane+1])

	re := make([]float32, 0, in.Len())
	im := make([]float32, 0, in.Len())
	for r := 0; r < in.Rows; r++ {
		re = append(re, data[2*r*plane:(2*r+1)*plane]...)
		im = append(im, data[(2*r+1)*plane:(2*r+2)*plane]...)
	}
	out, err := fromTensors(in.Shape(), re, im)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = fromTensors(in.Shape(), re[:3], im)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewONNXMissingModel(t *testing.T) {
	cfg := DefaultONNXConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "ckpt_80.onnx")
	_, err := NewONNX(cfg, logrus.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ckpt_80.onnx")
}

func stubEnv(t *testing.T, ready bool) (inits, destroys *int) {
	t.Helper()
	inits, destroys = new(int), new(int)
	oldReady, oldInit, oldDestroy, oldLibrary := envReady, envInit, envDestroy, envLibrary
	t.Cleanup(func() {
		envReady, envInit, envDestroy, envLibrary = oldReady, oldInit, oldDestroy, oldLibrary
		envRefs, envOwned = 0, false
	})
	envReady = func() bool { return ready || *inits > *destroys }
	envInit = func() error { *inits++; return nil }
	envDestroy = func() error { *destroys++; return nil }
	envLibrary = func(string) {}
	return inits, destroys
}

func TestEnvDestroyedWithLastAdapter(t *testing.T) {
	inits, destroys := stubEnv(t, false)

	require.NoError(t, acquireEnv(""))
	require.NoError(t, acquireEnv(""))
	assert.Equal(t, 1, *inits)

	require.NoError(t, releaseEnv())
	assert.Zero(t, *destroys, "another adapter still holds the environment")

	require.NoError(t, releaseEnv())
	assert.Equal(t, 1, *destroys)

	require.NoError(t, releaseEnv())
	assert.Equal(t, 1, *destroys)
}

func TestEnvInitializedElsewhereIsKept(t *testing.T) {
	inits, destroys := stubEnv(t, true)

	require.NoError(t, acquireEnv("/opt/onnxruntime.so"))
	require.NoError(t, releaseEnv())
	assert.Zero(t, *inits)
	assert.Zero(t, *destroys)
}

func TestCloseIsIdempotent(t *testing.T) {
	o := &ONNX{}
	assert.NoError(t, o.Close())
}

func TestNewONNXReleasesEnvOnFailure(t *testing.T) {
	inits, destroys := stubEnv(t, false)

	path := filepath.Join(t.TempDir(), "broken.onnx")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	cfg := DefaultONNXConfig()
	cfg.ModelPath = path
	log, _ := test.NewNullLogger()
	_, err := NewONNX(cfg, log)
	require.Error(t, err)

	assert.Equal(t, 1, *inits)
	assert.Equal(t, 1, *destroys)
	assert.Zero(t, envRefs)
}
