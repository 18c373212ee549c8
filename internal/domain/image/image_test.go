package image

import (
	"bytes"
	"context"
	"encoding/base64"
	stdimage "image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/errors"
	platformtesting "imgcaption/internal/platform/testing"
)

func newAcceptor(t *testing.T, maxSize int64) *Acceptor {
	t.Helper()
	logger := platformtesting.SetupTestLogger(t)
	cfg := config.DefaultConfig().Image
	if maxSize > 0 {
		cfg.MaxFileSize = maxSize
	}
	return NewAcceptor(NewValidator(cfg, logger), logger)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAccept_ValidPNG(t *testing.T) {
	a := newAcceptor(t, 0)
	data := pngBytes(t, 4, 3)

	img, err := a.Accept(context.Background(), FromBytes("cat.png", "image/png", data))
	require.NoError(t, err)

	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, data, img.Bytes)
	decoded, err := base64.StdEncoding.DecodeString(img.Base64)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, "data:image/png;base64,"+img.Base64, img.DataURL())
}

func TestAccept_HEICWithoutDecoder(t *testing.T) {
	a := newAcceptor(t, 0)
	data := []byte("not really a heic payload")

	img, err := a.Accept(context.Background(), FromBytes("photo.heic", "image/heic", data))
	require.NoError(t, err)
	assert.Zero(t, img.Width)
	assert.Zero(t, img.Height)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), img.Base64)
}

func TestAccept_Rejections(t *testing.T) {
	a := newAcceptor(t, 64)
	opened := false
	tracked := func(f File) File {
		inner := f.Open
		f.Open = func() (io.ReadCloser, error) {
			opened = true
			return inner()
		}
		return f
	}

	tests := []struct {
		name string
		file File
	}{
		{"bmp", tracked(FromBytes("a.bmp", "image/bmp", []byte("BM")))},
		{"text", tracked(FromBytes("a.txt", "text/plain", []byte("hello")))},
		{"svg", tracked(FromBytes("a.svg", "image/svg+xml", []byte("<svg/>")))},
		{"declared too large", tracked(FromBytes("big.png", "image/png", make([]byte, 65)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := a.Accept(context.Background(), tt.file)
			assert.Nil(t, img)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindFormat))
			assert.Equal(t, errors.MessageFormat, errors.MessageKey(err))
		})
	}
	assert.False(t, opened)
}

func TestAccept_ContentLargerThanDeclared(t *testing.T) {
	a := newAcceptor(t, 16)
	f := FromBytes("lie.png", "image/png", bytes.Repeat([]byte{1}, 32))
	f.Size = 8

	img, err := a.Accept(context.Background(), f)
	assert.Nil(t, img)
	assert.True(t, errors.IsKind(err, errors.KindFormat))
}

func TestAccept_EmptyFile(t *testing.T) {
	a := newAcceptor(t, 0)
	for _, data := range [][]byte{nil, {}} {
		img, err := a.Accept(context.Background(), FromBytes("empty.png", "image/png", data))
		assert.Nil(t, img)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindFormat))
		assert.Equal(t, errors.MessageFormat, errors.MessageKey(err))
	}
}

func TestAccept_ExactlyAtLimit(t *testing.T) {
	a := newAcceptor(t, 16)
	img, err := a.Accept(context.Background(), FromBytes("edge.gif", "image/gif", bytes.Repeat([]byte{7}, 16)))
	require.NoError(t, err)
	assert.Len(t, img.Bytes, 16)
}

func TestValidator_TypeNormalisation(t *testing.T) {
	v := NewValidator(config.DefaultConfig().Image, nil)
	assert.True(t, v.IsAllowed("IMAGE/JPEG"))
	assert.True(t, v.IsAllowed("image/webp; charset=binary"))
	assert.False(t, v.IsAllowed("image/svg+xml"))
	assert.Equal(t, int64(10*1024*1024), v.MaxSize())
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.bin")
	data := pngBytes(t, 2, 2)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pic.bin", f.Name)
	assert.Equal(t, "image/png", f.MIMEType)
	assert.Equal(t, int64(len(data)), f.Size)

	img, err := newAcceptor(t, 0).Accept(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, data, img.Bytes)

	_, err = OpenFile(dir)
	assert.Error(t, err)
	_, err = OpenFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
