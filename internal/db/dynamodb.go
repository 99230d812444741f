package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/wordlens/internal/models"
)

// Every save writes the same partition key, so the table never holds more
// than one live item and PutItem replaces it atomically.
const dynamoLastAnalysisPK = "last_analysis"

type dynamoLastAnalysis struct {
	PK string `dynamodbav:"pk"`
	models.LastAnalysis
}

type DynamoDBStore struct {
	client *dynamodb.Client
	table  string
}

// NewDynamoDBStore returns a store backed by table, creating the table on
// demand (useful against DynamoDB Local).
func NewDynamoDBStore(ctx context.Context, client *dynamodb.Client, table string) (*DynamoDBStore, error) {
	s := &DynamoDBStore{client: client, table: table}
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DynamoDBStore) ensureTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("[DynamoDB] Failed to describe table %s: %w", s.table, err)
	}

	slog.Info("[DynamoDB] Creating table", slog.String("table", s.table))
	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *DynamoDBStore) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: dynamoLastAnalysisPK},
	}
}

func (s *DynamoDBStore) Save(ctx context.Context, text string) (models.LastAnalysis, error) {
	rec := newRecord(text)
	item, err := attributevalue.MarshalMap(dynamoLastAnalysis{PK: dynamoLastAnalysisPK, LastAnalysis: rec})
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[DynamoDB] Failed to marshal last analysis: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[DynamoDB] Failed to put last analysis: %w", err)
	}
	return rec, nil
}

func (s *DynamoDBStore) Latest(ctx context.Context) (models.LastAnalysis, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[DynamoDB] Failed to get last analysis: %w", err)
	}
	if len(out.Item) == 0 {
		return models.LastAnalysis{}, ErrNotFound
	}

	var item dynamoLastAnalysis
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return models.LastAnalysis{}, fmt.Errorf("[DynamoDB] Unable to unmarshal last analysis: %w", err)
	}
	return item.LastAnalysis, nil
}

func (s *DynamoDBStore) Reset(ctx context.Context) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to delete last analysis: %w", err)
	}
	return nil
}

func (s *DynamoDBStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.table),
	})
	return err
}

func (s *DynamoDBStore) Close() error {
	return nil
}
