package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
)

const (
	coverPrefix   = "covers"
	MaxCoverBytes = 5 << 20
)

var (
	ErrUnsupportedType = errors.New("cover must be a jpeg, png, gif or webp image")
	ErrTooLarge        = errors.New("cover exceeds the size limit")
)

// Storage saves song cover images and returns the URL they are served from.
type Storage interface {
	SaveCover(fileHeader *multipart.FileHeader, songID int) (string, error)
}

type LocalStorage struct {
	uploadDir string
	urlPrefix string
}

type SpacesStorage struct {
	client s3iface.S3API
	bucket string
	cdnURL string
}

// NewLocalStorage writes under uploadDir; files are served at urlPrefix.
func NewLocalStorage(uploadDir, urlPrefix string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
		cdnURL: cdnURL,
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// coverName builds song_<id>_<timestamp>.<ext> from the upload's name.
func coverName(originalFilename string, songID int, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if contentType(ext) == "" {
		return "", ErrUnsupportedType
	}
	base := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	base = unsafeChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "")
	if base == "" {
		base = "cover"
	}
	return fmt.Sprintf("song_%d_%s_%s%s", songID, base, now.Format("20060102_150405"), ext), nil
}

func contentType(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return ""
}

func checkSize(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxCoverBytes {
		return ErrTooLarge
	}
	return nil
}

func (ls *LocalStorage) SaveCover(fileHeader *multipart.FileHeader, songID int) (string, error) {
	if err := checkSize(fileHeader); err != nil {
		return "", err
	}
	name, err := coverName(fileHeader.Filename, songID, time.Now())
	if err != nil {
		return "", err
	}

	dir := filepath.Join(ls.uploadDir, coverPrefix)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	log.Debug().Int("song_id", songID).Str("file", name).Msg("cover saved locally")
	return path.Join(ls.urlPrefix, coverPrefix, name), nil
}

func (ss *SpacesStorage) SaveCover(fileHeader *multipart.FileHeader, songID int) (string, error) {
	if err := checkSize(fileHeader); err != nil {
		return "", err
	}
	name, err := coverName(fileHeader.Filename, songID, time.Now())
	if err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := path.Join(coverPrefix, name)
	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType(filepath.Ext(name))),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Int("song_id", songID).Msg("failed to upload cover to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), key), nil
}
