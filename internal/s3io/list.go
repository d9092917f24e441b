package s3io

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// List returns all objects under the prefix in key order, following
// continuation tokens to the end. An empty result is not an error;
// callers decide whether a missing location matters.
func (cl *client) List(prefix string) ([]Object, error) {

	loi := s3.ListObjectsV2Input{
		Bucket: cl.bucket,
		Prefix: aws.String(prefix),
	}

	var objects []Object

	for {
		resp, err := cl.client.ListObjectsV2(context.Background(), &loi)
		if err != nil {
			return nil, err
		}

		for _, obj := range resp.Contents {
			objects = append(objects, Object{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}

		if aws.ToBool(resp.IsTruncated) == false {
			break
		}
		loi.ContinuationToken = resp.NextContinuationToken
	}

	return objects, nil
}
