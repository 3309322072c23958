package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	xs := []float64{1, 2, 4}
	ys := []float64{10, 20, 0}
	for _, tc := range []struct{ x, y float64 }{
		{0, 10}, {1, 10}, {1.5, 15}, {2, 20}, {3, 10}, {4, 0}, {5, 0},
	} {
		assert.InDelta(t, tc.y, Interpolate(xs, ys, tc.x), 1e-12, "x = %v", tc.x)
	}
}

func TestBinarySearch(t *testing.T) {
	below, above := BinarySearch(func(x float64) bool { return x*x >= 2 }, 0, 2, 1e-10)
	assert.LessOrEqual(t, below*below, 2.)
	assert.GreaterOrEqual(t, above*above, 2.)
	assert.InDelta(t, 1.41421356, above, 1e-8)
}

func TestArgmaxAndSum(t *testing.T) {
	assert.Equal(t, 2, Argmax([]float64{1, 3, 7, 7, 2}))
	assert.Equal(t, 12, SumSlice([]int{3, 4, 5}))
}

func TestKeV(t *testing.T) {
	assert.InDelta(t, 14.1, J2keV(KeV2J(14.1)), 1e-12)
}

func TestParseFloatPairs(t *testing.T) {
	pairs, err := ParseFloatPairs(strings.NewReader("# E w\n100 1\n\n200\t2.5\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{100, 1}, {200, 2.5}}, pairs)

	_, err = ParseFloatPairs(strings.NewReader("100 1 3\n"))
	assert.Error(t, err)
	_, err = ParseFloatPairs(strings.NewReader("100 x\n"))
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	dir := t.TempDir() + "/"
	name, err := OutputName(true, dir, "es", "run1", ".txt")
	require.NoError(t, err)
	assert.Equal(t, dir+"es/run1.txt", name)
	assert.DirExists(t, filepath.Join(dir, "es"))

	name, err = OutputName(false, dir, "es", "run1", ".png")
	require.NoError(t, err)
	assert.Equal(t, dir+"run1_es.png", name)
}

func TestWriteAsCSVNaturalOrder(t *testing.T) {
	dir := t.TempDir() + "/"
	data := CSV{{"run10", "a"}, {"run2", "b"}, {"run1", "c"}}
	require.NoError(t, WriteAsCSV(data, dir, "summary", "cfg.toml", []string{"run", "v"}))

	content, err := os.ReadFile(filepath.Join(dir, "summary", "cfg.txt"))
	require.NoError(t, err)
	assert.Equal(t, "run,v\nrun1,c\nrun2,b\nrun10,a\n", string(content))
}
