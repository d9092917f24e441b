package s3io

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Object is one listed key in the bucket.
type Object struct {
	Key  string
	Size int64
}

// Client is the capability surface the pipeline needs from the
// destination store: key-addressed byte streams plus listing. The
// core packages depend on this interface so they can run against
// in-memory fakes.
type Client interface {
	Bucket() string

	Exists(key string) (bool, error)
	List(prefix string) ([]Object, error)

	Upload(key string, source io.Reader) (int64, error)
	Download(key string, sink io.Writer) (int64, error)
	Delete(keys []string) error
}

type client struct {
	client *s3.Client
	bucket *string
}

func NewClient(profile, bucket string) (Client, error) {

	// load the profile
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithSharedConfigProfile(profile))
	if err != nil {
		return nil, err
	}

	return NewClientFromConfig(cfg, bucket), nil
}

// NewClientFromConfig builds a client for one bucket from an already
// loaded aws configuration. The refine stage uses this to address the
// raw and refined buckets from a single credential load.
func NewClientFromConfig(cfg aws.Config, bucket string) Client {
	cl := client{
		client: s3.NewFromConfig(cfg),
		bucket: aws.String(bucket),
	}
	return &cl
}

func (cl *client) Bucket() string {
	return aws.ToString(cl.bucket)
}
