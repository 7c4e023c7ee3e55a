package storage

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"skinviz/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3Config struct {
	Bucket   string
	Region   string
	Prefix   string // Objects are stored under this key prefix
	Endpoint string // For S3 compatible services
	Key      string
	Secret   string
}

type S3Storage struct {
	config   S3Config
	s3Client *s3.S3
	uploader *s3manager.Uploader
}

func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Key != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.Key, cfg.Secret, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}
	client := s3.New(sess)
	return &S3Storage{
		config:   cfg,
		s3Client: client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

func (s *S3Storage) String() string {
	return "s3://" + s.config.Bucket + "/" + s.config.Prefix
}

func (s *S3Storage) GetRemotePath(path string) string {
	prefix := strings.Trim(s.config.Prefix, "/")
	path = strings.TrimPrefix(path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (s *S3Storage) GetSize(path string) int64 {
	head, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.GetRemotePath(path)),
	})
	if err != nil || head.ContentLength == nil {
		return -1
	}
	return *head.ContentLength
}

func (s *S3Storage) Save(path, mimeType string, reader io.Reader) (int64, error) {
	// Buffer to report the size, images are small
	buf := bytes.Buffer{}
	size, err := io.Copy(&buf, reader)
	if err != nil {
		return 0, err
	}
	_, err = s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(s.GetRemotePath(path)),
		ContentType: aws.String(mimeType),
		Body:        &buf,
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.GetRemotePath(path)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	resp, err := s.s3Client.GetObjectWithContext(request.Context(), &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.GetRemotePath(path)),
	})
	if err != nil {
		logger.Warn(logger.Fields{"path": path, "error": err}, "S3 object not served")
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	defer resp.Body.Close()
	if resp.ContentType != nil {
		writer.Header().Set("Content-Type", *resp.ContentType)
	}
	if resp.ContentLength != nil {
		writer.Header().Set("Content-Length", strconv.FormatInt(*resp.ContentLength, 10))
	}
	writer.WriteHeader(http.StatusOK)
	_, _ = io.Copy(writer, resp.Body)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.GetRemotePath(path)),
	})
	return err
}
