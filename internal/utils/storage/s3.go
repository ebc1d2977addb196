package storage

import (
	"Meal-Tracker/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrEmptyFile          = errors.New("file is empty")
)

const maxUploadSize = 10 << 20

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error)
		UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowTypes ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	// ObjectAPI is the part of the S3 client the store needs.
	ObjectAPI interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	awsS3 struct {
		client     ObjectAPI
		bucket     string
		publicBase string
	}
)

func NewAwsS3() AwsS3 {
	region := utils.GetConfig("AWS_S3_REGION")
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	endpoint := utils.GetConfig("AWS_S3_ENDPOINT")

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey := utils.GetConfig("AWS_ACCESS_KEY"); accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Fatalf("unable to load AWS config for S3: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// S3-compatible stores (MinIO, Supabase storage) need path-style addressing
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return NewAwsS3WithClient(client, bucket, PublicBase(utils.GetConfig("AWS_S3_PUBLIC_URL"), endpoint, bucket, region))
}

func NewAwsS3WithClient(client ObjectAPI, bucket string, publicBase string) AwsS3 {
	return &awsS3{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}
}

// PublicBase resolves the URL prefix objects are publicly served from.
func PublicBase(publicURL, endpoint, bucket, region string) string {
	switch {
	case publicURL != "":
		return strings.TrimSuffix(publicURL, "/")
	case endpoint != "":
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(endpoint, "/"), bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
}

func (s *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowTypes ...string) (string, error) {
	data, mtype, err := readUpload(file, allowTypes)
	if err != nil {
		return "", err
	}

	objectKey := path.Join(folder, fileName+mtype.Extension())
	if err := s.put(ctx, objectKey, data, mtype.String()); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *awsS3) UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowTypes ...string) (string, error) {
	data, mtype, err := readUpload(file, allowTypes)
	if err != nil {
		return "", err
	}

	if err := s.put(ctx, objectKey, data, mtype.String()); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", objectKey, err)
	}
	return nil
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("%s/%s", s.publicBase, objectKey)
}

func (s *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := s.publicBase + "/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

func (s *awsS3) put(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", objectKey, err)
	}
	return nil
}

func readUpload(file *multipart.FileHeader, allowTypes []string) ([]byte, *mimetype.MIME, error) {
	if file == nil || file.Size == 0 {
		return nil, nil, ErrEmptyFile
	}
	if file.Size > maxUploadSize {
		return nil, nil, fmt.Errorf("file %s exceeds %d bytes", file.Filename, maxUploadSize)
	}

	f, err := file.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}

	mtype := mimetype.Detect(data)
	if len(allowTypes) > 0 && !mimetype.EqualsAny(mtype.String(), allowTypes...) {
		return nil, nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mtype.String())
	}
	return data, mtype, nil
}
