package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"storefront/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type StoredImage struct {
	URL      string
	PublicID string
}

type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (StoredImage, error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore prefers the individual credentials and falls back to CLOUDINARY_URL.
func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	switch {
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	default:
		return nil, errors.New("cloudinary credentials not configured")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, fh *multipart.FileHeader, folder string) (StoredImage, error) {
	file, err := fh.Open()
	if err != nil {
		return StoredImage{}, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	name := utils.UniqueFilename(fh.Filename)
	publicID := strings.TrimSuffix(name, filepath.Ext(name))

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return StoredImage{}, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return StoredImage{}, fmt.Errorf("cloudinary: %s", res.Error.Message)
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	return StoredImage{URL: url, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	return nil
}

// LocalStore writes uploads below dir and serves them from urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *LocalStore) Save(ctx context.Context, fh *multipart.FileHeader, folder string) (StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}

	targetDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return StoredImage{}, err
	}

	src, err := fh.Open()
	if err != nil {
		return StoredImage{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := utils.UniqueFilename(fh.Filename)
	dst, err := os.Create(filepath.Join(targetDir, name))
	if err != nil {
		return StoredImage{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return StoredImage{}, fmt.Errorf("write upload: %w", err)
	}

	rel := path.Join(folder, name)
	return StoredImage{URL: s.urlPrefix + "/" + rel, PublicID: rel}, nil
}

func (s *LocalStore) Delete(_ context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	full := filepath.Join(s.dir, filepath.FromSlash(publicID))
	if !strings.HasPrefix(filepath.Clean(full), filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return fmt.Errorf("invalid image path %q", publicID)
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
