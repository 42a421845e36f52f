package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("cover", name)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["cover"][0]
}

func TestCoverName(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

	name, err := coverName("My Album Art!.PNG", 7, at)
	require.NoError(t, err)
	assert.Equal(t, "song_7_My_Album_Art_20240601_093000.png", name)

	name, err = coverName("../../???.jpg", 7, at)
	require.NoError(t, err)
	assert.Equal(t, "song_7_cover_20240601_093000.jpg", name)

	_, err = coverName("clip.mp4", 7, at)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStorageSaveCover(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir, "/uploads/")

	url, err := ls.SaveCover(fileHeader(t, "art.jpg", []byte("jpeg-bytes")), 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/covers/song_3_art_"), url)

	saved, err := os.ReadFile(filepath.Join(dir, "covers", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(saved))

	_, err = ls.SaveCover(fileHeader(t, "notes.txt", []byte("x")), 3)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, nil
}

func TestSpacesStorageSaveCover(t *testing.T) {
	client := &fakeS3{}
	ss := &SpacesStorage{client: client, bucket: "radio", cdnURL: "https://cdn.example.com/"}

	url, err := ss.SaveCover(fileHeader(t, "art.webp", []byte("webp")), 9)
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "radio", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "image/webp", aws.StringValue(client.input.ContentType))
	assert.True(t, strings.HasPrefix(aws.StringValue(client.input.Key), "covers/song_9_art_"))
	assert.Equal(t, "https://cdn.example.com/"+aws.StringValue(client.input.Key), url)
}
