package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"tourbook/config"
	"tourbook/infras/otel"
	"tourbook/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	otelAttrSize      = "size"
)

// Storage puts tour and review images in an S3-compatible bucket and hands
// back their public URL.
type Storage interface {
	Upload(ctx context.Context, directory, fileName, contentType string, body io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, url string) error
	ObjectKeyFromURL(url string) (objectKey string)
}

type storageImpl struct {
	client *s3.Client
	bucket string
	public string
	api    string
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Storage {
	s3Config := config.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(s3Config.Region),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s3Config.AccessKeyID,
			s3Config.SecretAccessKey,
			constant.Empty,
		)),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s3Config.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &storageImpl{
		client: client,
		bucket: s3Config.BucketName,
		public: strings.TrimRight(s3Config.PublicDomain, "/"),
		api:    strings.TrimRight(s3Config.APIEndpoint, "/"),
		otel:   otel,
	}
}

func (svc *storageImpl) Upload(ctx context.Context, directory, fileName, contentType string, body io.Reader, size int64) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	objectKey := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    svc.bucket,
		otelAttrSize:      int(size),
	})

	input := &s3.PutObjectInput{
		Bucket:      aws.String(svc.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	}

	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err = svc.client.PutObject(ctx, input); err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload object")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(objectKey), nil
}

func (svc *storageImpl) Delete(ctx context.Context, url string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer func() {
		scope.TraceIfError(err)
		scope.End()
	}()

	objectKey := svc.ObjectKeyFromURL(url)
	if objectKey == constant.Empty {
		return fmt.Errorf("url %q does not belong to bucket %s", url, svc.bucket)
	}

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    svc.bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete object")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// ObjectKeyFromURL strips the public domain, or the API endpoint plus bucket,
// from url. Foreign URLs yield an empty key.
func (svc *storageImpl) ObjectKeyFromURL(url string) string {
	prefixes := []string{}
	if svc.public != "" {
		prefixes = append(prefixes, svc.public+"/")
	}

	if svc.api != "" {
		prefixes = append(prefixes, svc.api+"/"+svc.bucket+"/")
	}

	for _, prefix := range prefixes {
		if key, ok := strings.CutPrefix(url, prefix); ok && key != "" {
			return key
		}
	}

	return constant.Empty
}

func (svc *storageImpl) publicURL(objectKey string) string {
	if svc.public != "" {
		return svc.public + "/" + objectKey
	}

	return svc.api + "/" + svc.bucket + "/" + objectKey
}
