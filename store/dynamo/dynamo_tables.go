package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const tableActiveTimeout = 2 * time.Minute

// tableDef describes a table with a string partition key and a single
// string-keyed GSI projecting all attributes.
type tableDef struct {
	name      string
	keyAttr   string
	indexName string
	indexAttr string
}

func usersTableDef(name string) tableDef {
	return tableDef{name: name, keyAttr: attrUserId, indexName: emailIndex, indexAttr: attrEmail}
}

func blogsTableDef(name string) tableDef {
	return tableDef{name: name, keyAttr: attrBlogId, indexName: userBlogsIndex, indexAttr: attrUserId}
}

func (def tableDef) createTableInput() *dynamodb.CreateTableInput {
	throughput := &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(5),
		WriteCapacityUnits: aws.Int64(5),
	}

	return &dynamodb.CreateTableInput{
		TableName: aws.String(def.name),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(def.keyAttr), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(def.keyAttr), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(def.indexAttr), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(def.indexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(def.indexAttr), KeyType: types.KeyTypeHash},
				},
				Projection:            &types.Projection{ProjectionType: types.ProjectionTypeAll},
				ProvisionedThroughput: throughput,
			},
		},
		ProvisionedThroughput: throughput,
	}
}

// createTable creates the table and waits until it is active.
// A table that already exists is not an error.
func createTable(ctx context.Context, client *dynamodb.Client, def tableDef) error {
	_, err := client.CreateTable(ctx, def.createTableInput())
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create table %s failed: %w", def.name, err)
		}
		log.Printf("Table %s already exists", def.name)
	} else {
		log.Printf("Creating table %s", def.name)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(def.name)}, tableActiveTimeout); err != nil {
		return fmt.Errorf("waiting for table %s failed: %w", def.name, err)
	}

	return nil
}
