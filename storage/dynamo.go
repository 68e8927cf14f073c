package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jsaveker/fork-it-app/logging"
)

// DynamoKeyValueStore backs the KV contract with a single DynamoDB table:
// PK holds the key, Payload the raw value and ExpiresAt the epoch-seconds
// TTL attribute. Dynamo's TTL sweeper lags, so reads also drop records
// whose ExpiresAt already passed.
type DynamoKeyValueStore struct {
	Client    *dynamodb.Client
	TableName string
}

type dynamoItem struct {
	Key     string `dynamodbav:"PK"`
	Payload []byte `dynamodbav:"Payload"`
	// ExpiresAt is the table's TTL attribute. It must be absent, not zero,
	// for keys that never expire, or the sweeper would treat them as
	// long-expired.
	ExpiresAt int64 `dynamodbav:"ExpiresAt,omitempty"`
}

func (d dynamoItem) expired(now time.Time) bool {
	return d.ExpiresAt > 0 && now.Unix() > d.ExpiresAt
}

func (s *DynamoKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	marshaledKey, err := attributevalue.MarshalMap(map[string]string{"PK": key})
	if err != nil {
		logging.Log.Errorf("KV: failed to marshal key %s: %v", key, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       marshaledKey,
	})
	if err != nil {
		logging.Log.Errorf("KV: dynamo GetItem %s failed: %v", key, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if out.Item == nil {
		return nil, ErrKeyNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		logging.Log.Errorf("KV: failed to unmarshal item %s: %v", key, err)
		return nil, err
	}
	if item.expired(time.Now().UTC()) {
		return nil, ErrKeyNotFound
	}
	return item.Payload, nil
}

func (s *DynamoKeyValueStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	record := dynamoItem{Key: key, Payload: value}
	if ttl > 0 {
		record.ExpiresAt = time.Now().UTC().Add(ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		logging.Log.Errorf("KV: failed to marshal item %s: %v", key, err)
		return err
	}
	if _, err := s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	}); err != nil {
		logging.Log.Errorf("KV: dynamo PutItem %s failed: %v", key, err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *DynamoKeyValueStore) Delete(ctx context.Context, key string) error {
	marshaledKey, err := attributevalue.MarshalMap(map[string]string{"PK": key})
	if err != nil {
		logging.Log.Errorf("KV: failed to marshal key %s: %v", key, err)
		return err
	}

	if _, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       marshaledKey,
	}); err != nil {
		logging.Log.Errorf("KV: dynamo DeleteItem %s failed: %v", key, err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *DynamoKeyValueStore) List(ctx context.Context, prefix string) ([][]byte, error) {
	values := make([][]byte, 0)
	now := time.Now().UTC()

	var lastEvaluatedKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        &s.TableName,
			FilterExpression: aws.String("begins_with(PK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: prefix},
			},
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("KV: dynamo Scan %s* failed: %v", prefix, err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}

		var items []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			logging.Log.Errorf("KV: failed to unmarshal scan page: %v", err)
			return nil, err
		}
		for _, item := range items {
			if !item.expired(now) {
				values = append(values, item.Payload)
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
	return values, nil
}
