package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultMaxSize = 5 << 20

var ErrUploadRejected = errors.New("upload rejected")

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

var allowedMIME = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

type Config struct {
	Dir        string // where uploads are written
	PublicPath string // URL prefix the directory is served under
	MaxSize    int64
}

// BlobStore keeps uploaded images on local disk. Records reference blobs by the
// path returned from Save.
type BlobStore struct {
	dir        string
	publicPath string
	maxSize    int64
}

func NewBlobStore(cfg Config) (*BlobStore, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("upload directory is required")
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	publicPath := "/" + strings.Trim(cfg.PublicPath, "/")

	log.Info().Str("component", "storage").Str("dir", dir).Str("publicPath", publicPath).Msg("upload directory ready")
	return &BlobStore{dir: dir, publicPath: publicPath, maxSize: maxSize}, nil
}

func (s *BlobStore) Dir() string {
	return s.dir
}

func (s *BlobStore) PublicPath() string {
	return s.publicPath
}

func (s *BlobStore) MaxSize() int64 {
	return s.maxSize
}

// Save validates and writes an uploaded image and returns its stored path.
func (s *BlobStore) Save(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("%w: only images (jpeg, jpg, png, gif) are allowed", ErrUploadRejected)
	}
	if file.Size > s.maxSize {
		return "", fmt.Errorf("%w: image file too large (max %dMB)", ErrUploadRejected, s.maxSize>>20)
	}

	in, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer in.Close()

	return s.write(in, extension)
}

func (s *BlobStore) write(in io.ReadSeeker, extension string) (string, error) {
	detected, err := mimetype.DetectReader(in)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if _, ok := allowedMIME[detected.String()]; !ok {
		return "", fmt.Errorf("%w: only images (jpeg, jpg, png, gif) are allowed", ErrUploadRejected)
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	filename := primitive.NewObjectID().Hex() + extension
	fullPath := filepath.Join(s.dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Error().Err(err).Str("component", "storage").Str("path", fullPath).Msg("create upload file failed")
		return "", err
	}

	written, err := io.Copy(out, io.LimitReader(in, s.maxSize+1))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = fmt.Errorf("%w: image file too large (max %dMB)", ErrUploadRejected, s.maxSize>>20)
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	log.Debug().Str("component", "storage").Str("path", fullPath).Int64("bytes", written).Msg("upload saved")
	return filepath.ToSlash(fullPath), nil
}

// Delete removes a stored blob. It never fails: a missing or undeletable file
// is logged and otherwise ignored.
func (s *BlobStore) Delete(stored string) {
	trimmed := strings.TrimSpace(stored)
	if trimmed == "" {
		return
	}

	target, err := s.resolve(trimmed)
	if err != nil {
		log.Warn().Err(err).Str("component", "storage").Str("path", stored).Msg("blob delete skipped")
		return
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("component", "storage").Str("path", target).Msg("blob already gone")
			return
		}
		log.Warn().Err(err).Str("component", "storage").Str("path", target).Msg("blob delete failed")
		return
	}
	log.Debug().Str("component", "storage").Str("path", target).Msg("blob deleted")
}

func (s *BlobStore) resolve(stored string) (string, error) {
	target := filepath.Clean(filepath.FromSlash(stored))
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.dir, filepath.Base(target))
	}
	if filepath.Dir(target) != s.dir {
		return "", fmt.Errorf("refusing to delete path outside upload directory: %s", stored)
	}
	return target, nil
}

// URL maps a stored path to the public URL it is served under. An empty path
// has no URL.
func (s *BlobStore) URL(stored string) *string {
	return PublicURL(s.publicPath, stored)
}

func PublicURL(publicPath, stored string) *string {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return nil
	}
	name := path.Base(filepath.ToSlash(stored))
	if name == "." || name == "/" {
		return nil
	}
	url := strings.TrimRight(publicPath, "/") + "/" + name
	return &url
}
