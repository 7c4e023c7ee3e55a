package storage

import (
	"errors"
	"io"
	"net/http"

	"skinviz/config"
	"skinviz/logger"
)

var ErrNotConfigured = errors.New("storage not configured")

// StorageAPI keeps rendered images, addressed by relative paths
type StorageAPI interface {
	GetSize(path string) int64
	Save(path, mimeType string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	String() string
}

var defaultStorage StorageAPI

// Init selects S3 when a bucket is configured and the local disk otherwise
func Init() error {
	var err error
	if config.S3_BUCKET != "" {
		defaultStorage, err = NewS3Storage(S3Config{
			Bucket:   config.S3_BUCKET,
			Region:   config.S3_REGION,
			Prefix:   config.S3_PREFIX,
			Endpoint: config.S3_ENDPOINT,
			Key:      config.S3_KEY,
			Secret:   config.S3_SECRET,
		})
	} else {
		defaultStorage, err = NewDiskStorage(config.STORAGE_DIR)
	}
	if err != nil {
		return err
	}
	logger.Info(logger.Fields{"storage": defaultStorage.String()}, "Storage ready")
	return nil
}

func GetDefaultStorage() (StorageAPI, error) {
	if defaultStorage == nil {
		return nil, ErrNotConfigured
	}
	return defaultStorage, nil
}

// SetDefault replaces the storage returned by GetDefaultStorage
func SetDefault(s StorageAPI) {
	defaultStorage = s
}
