package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Writer сохраняет JSON-документы в S3
type S3Writer struct {
	client PutObjectAPI
}

func NewS3Writer(client PutObjectAPI) *S3Writer {
	return &S3Writer{client: client}
}

func (w *S3Writer) WriteJSON(ctx context.Context, bucket, key string, data []byte) error {
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrapf(err, "put s3://%s/%s", bucket, key)
	}
	return nil
}
