package s3io

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func (cl *client) Download(key string, sink io.Writer) (int64, error) {

	// use the simple GetObject method as we won't have an io.WriterAt
	//   interface to use the manager/parallel downloader
	resp, err := cl.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: cl.bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		var nosuchkey *types.NoSuchKey
		if errors.As(err, &nosuchkey) {
			return 0, &ErrNoSuchObject{
				key: key,
			}
		}
		return 0, err
	}
	defer resp.Body.Close()

	nbytes, err := io.Copy(sink, resp.Body)
	if err != nil {
		return 0, err
	}

	return nbytes, nil
}
