package s3io

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func (cl *client) Upload(key string, source io.Reader) (int64, error) {

	// count how many bytes actually get uploaded
	counter := NewReadCounter(source)
	defer counter.Close()

	// can't use the simple PutObject method because we don't know the
	// ContentLength in advance so use an Uploader...

	ctx := context.Background()

	uploader := manager.NewUploader(cl.client)

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: cl.bucket,
		Key:    aws.String(key),
		Body:   counter,
	})

	return counter.TotalBytes(), err
}
