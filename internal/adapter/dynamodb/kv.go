package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/couchcryptid/landslide-monitor/internal/store"
)

var _ store.KV = (*KV)(nil)

// Attribute names in the backing table. The partition key is a string.
const (
	keyAttr   = "storage_key"
	valueAttr = "value"
)

// API is the subset of the DynamoDB client the KV uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// KV stores each key as one item in a DynamoDB table.
type KV struct {
	client API
	table  string
}

// NewKV builds a DynamoDB client from the default AWS credential chain. A
// non-empty endpoint overrides the service URL (DynamoDB Local, LocalStack).
func NewKV(ctx context.Context, table, region, endpoint string) (*KV, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewKVWithClient(client, table), nil
}

// NewKVWithClient wraps an existing client.
func NewKVWithClient(client API, table string) *KV {
	return &KV{client: client, table: table}
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := k.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(k.table),
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}

	attr, ok := out.Item[valueAttr].(*types.AttributeValueMemberS)
	if !ok {
		return "", false, fmt.Errorf("item %q: attribute %q is not a string", key, valueAttr)
	}
	return attr.Value, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	_, err := k.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(k.table),
		Item: map[string]types.AttributeValue{
			keyAttr:   &types.AttributeValueMemberS{Value: key},
			valueAttr: &types.AttributeValueMemberS{Value: value},
		},
	})
	if err != nil {
		return fmt.Errorf("put item %q: %w", key, err)
	}
	return nil
}

func (k *KV) Remove(ctx context.Context, key string) error {
	_, err := k.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(k.table),
		Key:       itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("delete item %q: %w", key, err)
	}
	return nil
}

func itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: key},
	}
}
