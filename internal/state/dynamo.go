package state

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore keeps sync state in a dynamodb table keyed by file_id.
type DynamoStore struct {
	client *dynamodb.Client
	table  *string
}

func NewDynamoStore(client *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{
		client: client,
		table:  aws.String(table),
	}
}

func (ds *DynamoStore) Get(ctx context.Context, fileID string) (*Entry, error) {
	resp, err := ds.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: ds.table,
		Key: map[string]types.AttributeValue{
			"file_id": &types.AttributeValueMemberS{Value: fileID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("state get %s: %w", fileID, err)
	}

	if len(resp.Item) == 0 {
		return nil, nil
	}

	var entry Entry
	err = attributevalue.UnmarshalMap(resp.Item, &entry)
	if err != nil {
		return nil, fmt.Errorf("state decode %s: %w", fileID, err)
	}

	return &entry, nil
}

func (ds *DynamoStore) Put(ctx context.Context, entry *Entry) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("state encode %s: %w", entry.FileID, err)
	}

	_, err = ds.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: ds.table,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("state put %s: %w", entry.FileID, err)
	}

	return nil
}
