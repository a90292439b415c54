package s3aws

import (
	"bytes"
	"context"
	"fmt"
	"go-twocheckout/internal/pkg/logger"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type S3Config struct {
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	Endpoint           string
}

// Is3 is the archive surface used by the checkout service.
type Is3 interface {
	GetBucketName() string
	UploadFile(ctx context.Context, fileName string, fileBytes []byte, contentType string) error
}

type S3Client struct {
	Client     s3iface.S3API
	BucketName string
}

func newSession(cfg S3Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	return session.NewSession(awsCfg)
}

func NewS3Client(cfg S3Config, bucketName string) (*S3Client, error) {
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	s3Client := &S3Client{
		Client:     s3.New(sess),
		BucketName: bucketName,
	}

	exists, err := s3Client.bucketExists()
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := s3Client.createBucket(); err != nil {
			return nil, err
		}
	}

	return s3Client, nil
}

func (s *S3Client) bucketExists() (bool, error) {
	_, err := s.Client.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(s.BucketName),
	})
	if err == nil {
		return true, nil
	}

	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, "NotFound":
			return false, nil
		}
	}
	return false, err
}

func (s *S3Client) createBucket() error {
	logger.Info.Printf("Creating bucket: %s", s.BucketName)
	_, err := s.Client.CreateBucket(&s3.CreateBucketInput{
		Bucket: aws.String(s.BucketName),
	})
	return err
}

func (s *S3Client) GetBucketName() string {
	return s.BucketName
}

func (s *S3Client) UploadFile(ctx context.Context, fileName string, fileBytes []byte, contentType string) error {
	if contentType == "" {
		contentType = getContentTypeFromKey(fileName)
	}

	_, err := s.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return nil
}

// ArchiveKey lays archived objects out by day: <prefix>/2006/01/02/<name>-<unix nanos>.json
func ArchiveKey(prefix, name string, at time.Time) string {
	at = at.UTC()
	return path.Join(
		prefix,
		at.Format("2006"),
		at.Format("01"),
		at.Format("02"),
		fmt.Sprintf("%s-%d.json", sanitizeKeyPart(name), at.UnixNano()),
	)
}

func sanitizeKeyPart(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func getContentTypeFromKey(key string) string {
	contentTypes := map[string]string{
		".json": "application/json",
		".txt":  "text/plain",
		".csv":  "text/csv",
		".xml":  "application/xml",
		".html": "text/html",
	}

	if contentType, exists := contentTypes[strings.ToLower(filepath.Ext(key))]; exists {
		return contentType
	}

	return "application/octet-stream"
}
