package sqlrun

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// AthenaService runs statements through the Athena query engine.
type AthenaService struct {
	client    *athena.Client
	database  string
	workgroup string
	output    string
}

func NewAthenaService(cfg aws.Config, database, workgroup, output string) *AthenaService {
	return &AthenaService{
		client:    athena.NewFromConfig(cfg),
		database:  database,
		workgroup: workgroup,
		output:    output,
	}
}

func (svc *AthenaService) Start(ctx context.Context, sql string) (string, error) {
	input := athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(svc.database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(svc.output),
		},
	}
	if svc.workgroup != "" {
		input.WorkGroup = aws.String(svc.workgroup)
	}

	result, err := svc.client.StartQueryExecution(ctx, &input)
	if err != nil {
		return "", err
	}

	return *result.QueryExecutionId, nil
}

func (svc *AthenaService) Status(ctx context.Context, queryID string) (string, string, error) {
	result, err := svc.client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(queryID),
	})
	if err != nil {
		return "", "", err
	}

	status := result.QueryExecution.Status
	reason := ""
	if status.StateChangeReason != nil {
		reason = *status.StateChangeReason
	}

	return string(status.State), reason, nil
}
