package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/vendora/api/internal/domain"
)

// DiscountRepo provides typed DynamoDB operations for the discount_codes table.
type DiscountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDiscountRepo(client *dynamodb.Client, tableName string) *DiscountRepo {
	return &DiscountRepo{client: client, tableName: tableName}
}

func (r *DiscountRepo) Put(ctx context.Context, d *domain.DiscountCode) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal discount code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DiscountRepo) Get(ctx context.Context, codeID string) (*domain.DiscountCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("code_id", codeID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("discount code not found: %w", domain.ErrNotFound)
	}
	var d domain.DiscountCode
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListBySeller returns all discount codes owned by a seller via the seller_id GSI.
func (r *DiscountRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.DiscountCode, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("seller_id-index"),
		KeyConditionExpression:    aws.String("#s = :v"),
		ExpressionAttributeNames:  map[string]string{"#s": "seller_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: sellerID}},
	})
	if err != nil {
		return nil, err
	}
	var codes []domain.DiscountCode
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *DiscountRepo) Delete(ctx context.Context, codeID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("code_id", codeID),
	})
	return err
}
