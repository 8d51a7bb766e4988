package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestProcessJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(testJPEG(t, 100, 100)))
	require.NoError(t, err)
	require.Equal(t, ContentType, result.MIME)
	require.NotEmpty(t, result.Data)
}

func TestProcessPNGOutputsJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(testPNG(t, 100, 100)))
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", result.MIME)

	w, h := decodeDims(t, result.Data)
	require.Equal(t, 100, w)
	require.Equal(t, 100, h)
}

func TestProcessFitsInsideBox(t *testing.T) {
	cases := []struct {
		name             string
		inW, inH         int
		wantW, wantH     int
	}{
		{"wide", 1600, 600, 800, 300},
		{"tall", 800, 1200, 400, 600},
		{"both over", 2400, 1800, 800, 600},
		{"width only over", 1000, 500, 800, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Process(bytes.NewReader(testJPEG(t, tc.inW, tc.inH)))
			require.NoError(t, err)
			w, h := decodeDims(t, result.Data)
			require.Equal(t, tc.wantW, w)
			require.Equal(t, tc.wantH, h)
			require.Equal(t, tc.wantW, result.Width)
			require.Equal(t, tc.wantH, result.Height)
		})
	}
}

func TestProcessNeverEnlarges(t *testing.T) {
	result, err := Process(bytes.NewReader(testJPEG(t, 50, 40)))
	require.NoError(t, err)
	w, h := decodeDims(t, result.Data)
	require.Equal(t, 50, w)
	require.Equal(t, 40, h)
}

func TestProcessInvalidInput(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)
}

func TestProcessGIFRejected(t *testing.T) {
	_, err := Process(bytes.NewReader([]byte("GIF89a.......")))
	require.Error(t, err)
}
