package trigger

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
)

// only the most recent few runs matter for the in-flight check
const recentRunLimit = 5

// GlueRunner adapts the glue api to the Runner interface.
type GlueRunner struct {
	client *glue.Client
}

func NewGlueRunner(cfg aws.Config) *GlueRunner {
	return &GlueRunner{
		client: glue.NewFromConfig(cfg),
	}
}

func (gr *GlueRunner) ListRecentRuns(ctx context.Context, jobName string) ([]Run, error) {
	resp, err := gr.client.GetJobRuns(ctx, &glue.GetJobRunsInput{
		JobName:    aws.String(jobName),
		MaxResults: aws.Int32(recentRunLimit),
	})
	if err != nil {
		return nil, err
	}

	var runs []Run
	for _, jr := range resp.JobRuns {
		runs = append(runs, Run{
			ID:    aws.ToString(jr.Id),
			State: string(jr.JobRunState),
		})
	}

	return runs, nil
}

func (gr *GlueRunner) StartRun(ctx context.Context, jobName string, args map[string]string) (string, error) {
	resp, err := gr.client.StartJobRun(ctx, &glue.StartJobRunInput{
		JobName:   aws.String(jobName),
		Arguments: args,
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(resp.JobRunId), nil
}
