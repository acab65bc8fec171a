package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectImageType(t *testing.T) {
	mime, err := DetectImageType(pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = DetectImageType([]byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = DetectImageType(make([]byte, MaxPhotoBytes+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestCompressImage(t *testing.T) {
	out, err := CompressImage(pngBytes(t, 400, 100), 200, 80)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(100, 300, 150)
	assert.Equal(t, 50, w)
	assert.Equal(t, 150, h)

	w, h = fitWithin(10, 10, 150)
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
}

type fakePutter struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, f.err
}

func TestPhotoStore_PutPhoto(t *testing.T) {
	fp := &fakePutter{}
	store := NewPhotoStore(fp, Config{Endpoint: "http://minio:9000", Bucket: "photos"})

	url, err := store.PutPhoto(context.Background(), "u1", "abc", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/photos/profile-photos/u1/abc.jpg", url)
	assert.Equal(t, "profile-photos/u1/abc.jpg", *fp.input.Key)
	assert.Equal(t, "photos", *fp.input.Bucket)

	fp.err = errors.New("boom")
	_, err = store.PutPhoto(context.Background(), "u1", "abc", []byte{1})
	assert.Error(t, err)
}
