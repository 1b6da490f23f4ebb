package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/zlnvch/blogverse/store"
)

func newDynamoDBClient(ctx context.Context, devMode bool, dynamodbEndpoint string) (*dynamodb.Client, error) {
	if devMode {
		// Load config with dummy credentials and region for local/dev
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion("us-east-1"),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
			),
		)
		if err != nil {
			return nil, err
		}

		// Override endpoint for DynamoDB locally
		return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			if dynamodbEndpoint != "" {
				o.BaseEndpoint = aws.String(dynamodbEndpoint)
			}
		}), nil
	}

	// Production: default config chain (env, shared config, task role)
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg), nil
}

func getTables(client *dynamodb.Client, ctx context.Context) ([]string, error) {
	var names []string
	paginator := dynamodb.NewListTablesPaginator(client, &dynamodb.ListTablesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		names = append(names, page.TableNames...)
	}
	return names, nil
}

func stringKey(keyAttr string, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: value},
	}
}

// getItem retrieves an item of type T by its partition key
func getItem[T any](dynamoStore *DynamoBlogverseStore, ctx context.Context, tableName string, keyAttr string, keyValue string, consistentRead bool) (T, error) {
	var zero T

	resp, err := dynamoStore.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            stringKey(keyAttr, keyValue),
		ConsistentRead: aws.Bool(consistentRead),
	})
	if err != nil {
		return zero, fmt.Errorf("GetItem failed: %w", err)
	}
	if resp.Item == nil {
		return zero, store.ErrItemNotFound
	}

	var item T
	if err := attributevalue.UnmarshalMap(resp.Item, &item); err != nil {
		return zero, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return item, nil
}

// putItemIfAbsent inserts item only if no item with the same partition key exists.
// Returns store.ErrConditionFailed when the key is already taken.
func putItemIfAbsent[T any](dynamoStore *DynamoBlogverseStore, ctx context.Context, tableName string, keyAttr string, item T) error {
	avMap, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if _, ok := avMap[keyAttr]; !ok {
		return fmt.Errorf("struct missing %s field", keyAttr)
	}

	_, err = dynamoStore.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(tableName),
		Item:                     avMap,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return store.ErrConditionFailed
		}
		return fmt.Errorf("failed to put item: %w", err)
	}

	return nil
}

// scanAll returns every item in a table. There is no ordering guarantee and
// the whole table is read, so this is only meant for small collections.
func scanAll[T any](dynamoStore *DynamoBlogverseStore, ctx context.Context, tableName string) ([]T, error) {
	results := []T{}

	paginator := dynamodb.NewScanPaginator(dynamoStore.client, &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		var pageItems []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal page items: %w", err)
		}

		results = append(results, pageItems...)
	}

	return results, nil
}

// queryAllByGSI returns all items in a GSI with the given partition key value.
// GSI reads are eventually consistent.
func queryAllByGSI[T any](dynamoStore *DynamoBlogverseStore, ctx context.Context, tableName string, indexName string, pkField string, pkValue string) ([]T, error) {
	results := []T{}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": pkField,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pkValue},
		},
	}

	paginator := dynamodb.NewQueryPaginator(dynamoStore.client, input)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query GSI failed: %w", err)
		}

		var pageItems []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal page items: %w", err)
		}

		results = append(results, pageItems...)
	}

	return results, nil
}

// buildSetExpression builds "SET #a = :a, #b = :b" for the given values.
// Fields are emitted in sorted order so the expression is deterministic.
func buildSetExpression(values map[string]types.AttributeValue) (string, map[string]string, map[string]types.AttributeValue) {
	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	updateExpr := "SET "
	exprAttrNames := make(map[string]string, len(fields))
	exprAttrValues := make(map[string]types.AttributeValue, len(fields))

	for i, field := range fields {
		if i > 0 {
			updateExpr += ", "
		}
		updateExpr += fmt.Sprintf("#%s = :%s", field, field)
		exprAttrNames["#"+field] = field
		exprAttrValues[":"+field] = values[field]
	}

	return updateExpr, exprAttrNames, exprAttrValues
}

// updateItem sets the given attributes on an existing item and returns the
// item as it is after the update. Returns store.ErrItemNotFound if the item
// does not exist.
func updateItem[T any](
	dynamoStore *DynamoBlogverseStore,
	ctx context.Context,
	tableName string,
	keyAttr string,
	keyValue string,
	values map[string]types.AttributeValue,
) (T, error) {
	var zero T

	if _, ok := values[keyAttr]; ok {
		return zero, errors.New("cannot update key attribute")
	}
	if len(values) == 0 {
		return zero, errors.New("no attributes to update")
	}

	updateExpr, exprAttrNames, exprAttrValues := buildSetExpression(values)
	exprAttrNames["#k"] = keyAttr

	out, err := dynamoStore.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       stringKey(keyAttr, keyValue),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrValues,
		ConditionExpression:       aws.String("attribute_exists(#k)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return zero, store.ErrItemNotFound
		}
		return zero, fmt.Errorf("update failed: %w", err)
	}

	var updated T
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return zero, fmt.Errorf("failed to unmarshal updated item: %w", err)
	}

	return updated, nil
}

// deleteItemIfExists deletes an item by partition key.
// Returns store.ErrItemNotFound if there was nothing to delete.
func deleteItemIfExists(dynamoStore *DynamoBlogverseStore, ctx context.Context, tableName string, keyAttr string, keyValue string) error {
	_, err := dynamoStore.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(tableName),
		Key:                      stringKey(keyAttr, keyValue),
		ConditionExpression:      aws.String("attribute_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": keyAttr},
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			return store.ErrItemNotFound
		}
		return fmt.Errorf("delete failed: %w", err)
	}

	return nil
}

// appendToList appends value to a list attribute, creating the list if it is absent.
// The item itself must exist. With onlyIfAbsent the append is skipped (and
// store.ErrConditionFailed returned) when the list already contains value.
func appendToList(
	dynamoStore *DynamoBlogverseStore,
	ctx context.Context,
	tableName string,
	keyAttr string,
	keyValue string,
	listField string,
	value string,
	onlyIfAbsent bool,
) error {
	condition := "attribute_exists(#k)"
	exprAttrValues := map[string]types.AttributeValue{
		":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		":new": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: value},
		}},
	}
	// DynamoDB rejects unused expression values, so :v is only bound when referenced
	if onlyIfAbsent {
		condition += " AND NOT contains(#l, :v)"
		exprAttrValues[":v"] = &types.AttributeValueMemberS{Value: value}
	}

	_, err := dynamoStore.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(tableName),
		Key:              stringKey(keyAttr, keyValue),
		UpdateExpression: aws.String("SET #l = list_append(if_not_exists(#l, :empty), :new)"),
		ExpressionAttributeNames: map[string]string{
			"#k": keyAttr,
			"#l": listField,
		},
		ExpressionAttributeValues: exprAttrValues,
		ConditionExpression:       aws.String(condition),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			if onlyIfAbsent {
				return store.ErrConditionFailed
			}
			return store.ErrItemNotFound
		}
		return fmt.Errorf("append to list failed: %w", err)
	}

	return nil
}

// setList overwrites a list attribute on an existing item.
// If prior is non-nil the write only happens while the stored list still equals prior.
func setList(
	dynamoStore *DynamoBlogverseStore,
	ctx context.Context,
	tableName string,
	keyAttr string,
	keyValue string,
	listField string,
	values []string,
	prior []string,
) error {
	listAttr, err := stringList(values)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	condition := "attribute_exists(#k)"
	exprAttrValues := map[string]types.AttributeValue{
		":list": listAttr,
	}
	if prior != nil {
		priorAttr, err := stringList(prior)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		condition += " AND #l = :prior"
		exprAttrValues[":prior"] = priorAttr
	}

	_, err = dynamoStore.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(tableName),
		Key:              stringKey(keyAttr, keyValue),
		UpdateExpression: aws.String("SET #l = :list"),
		ExpressionAttributeNames: map[string]string{
			"#k": keyAttr,
			"#l": listField,
		},
		ExpressionAttributeValues: exprAttrValues,
		ConditionExpression:       aws.String(condition),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			if prior != nil {
				return store.ErrConditionFailed
			}
			return store.ErrItemNotFound
		}
		return fmt.Errorf("set list failed: %w", err)
	}

	return nil
}
