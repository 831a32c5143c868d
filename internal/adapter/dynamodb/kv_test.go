package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = "landslide-kv"

// fakeAPI keeps items in a map keyed by the partition key value.
type fakeAPI struct {
	items     map[string]map[string]types.AttributeValue
	err       error
	lastGet   *dynamodb.GetItemInput
	lastTable string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string]map[string]types.AttributeValue)}
}

func partitionKey(item map[string]types.AttributeValue) string {
	return item[keyAttr].(*types.AttributeValueMemberS).Value
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGet = in
	f.lastTable = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[partitionKey(in.Key)]}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastTable = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	f.items[partitionKey(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.lastTable = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, partitionKey(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	kv := NewKVWithClient(api, testTable)

	_, ok, err := kv.Get(ctx, "@sensor_data_history")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "@sensor_data_history", "[]"))
	assert.Equal(t, testTable, api.lastTable)

	v, ok, err := kv.Get(ctx, "@sensor_data_history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.True(t, aws.ToBool(api.lastGet.ConsistentRead), "read-modify-write needs consistent reads")

	require.NoError(t, kv.Remove(ctx, "@sensor_data_history"))
	_, ok, err = kv.Get(ctx, "@sensor_data_history")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_NonStringValue(t *testing.T) {
	api := newFakeAPI()
	api.items["k"] = map[string]types.AttributeValue{
		keyAttr:   &types.AttributeValueMemberS{Value: "k"},
		valueAttr: &types.AttributeValueMemberN{Value: "42"},
	}
	kv := NewKVWithClient(api, testTable)

	_, _, err := kv.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a string")
}

func TestKV_ClientErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("throttled")
	api := newFakeAPI()
	api.err = boom
	kv := NewKVWithClient(api, testTable)

	_, _, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, kv.Set(ctx, "k", "v"), boom)
	assert.ErrorIs(t, kv.Remove(ctx, "k"), boom)
}
