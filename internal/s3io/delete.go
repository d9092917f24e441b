package s3io

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// the DeleteObjects api caps a single request at 1000 keys
const deleteBatchSize = 1000

func (cl *client) Delete(keys []string) error {

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		var objects []types.ObjectIdentifier
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{
				Key: aws.String(key),
			})
		}

		_, err := cl.client.DeleteObjects(context.Background(), &s3.DeleteObjectsInput{
			Bucket: cl.bucket,
			Delete: &types.Delete{
				Objects: objects,
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}
