package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/dls-barber/internal/config"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcessPhotoDownscales(t *testing.T) {
	out, err := ProcessPhoto(pngOf(t, 1024, 512))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
}

func TestProcessPhotoKeepsSmallImages(t *testing.T) {
	out, err := ProcessPhoto(pngOf(t, 100, 200))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestProcessPhotoRejectsGarbage(t *testing.T) {
	_, err := ProcessPhoto(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNewS3Store(t *testing.T) {
	_, err := NewS3Store(config.S3Config{})
	assert.Error(t, err)

	s, err := NewS3Store(config.S3Config{
		Bucket:    "photos",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		PublicURL: "https://cdn.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/barbers/1.webp", s.URL("barbers/1.webp"))

	s, err = NewS3Store(config.S3Config{Bucket: "photos", Region: "sa-east-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.s3.sa-east-1.amazonaws.com/k", s.URL("k"))
}
