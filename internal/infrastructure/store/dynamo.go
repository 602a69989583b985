package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/example/sneaker-shop/internal/auth"
	"github.com/example/sneaker-shop/internal/catalog"
	"github.com/example/sneaker-shop/internal/checkout"
	"github.com/example/sneaker-shop/internal/order"
)

// NewDynamoClient builds a DynamoDB client from the ambient AWS config.
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// dynamoProduct is the catalog document shape. Money travels as strings to
// keep exact decimal values.
type dynamoProduct struct {
	ID        string   `dynamodbav:"id"`
	Brand     string   `dynamodbav:"brand,omitempty"`
	Model     string   `dynamodbav:"model,omitempty"`
	Name      string   `dynamodbav:"name,omitempty"`
	Price     string   `dynamodbav:"price"`
	Discount  string   `dynamodbav:"discount"`
	Category  string   `dynamodbav:"category,omitempty"`
	Sizes     []string `dynamodbav:"sizes,omitempty"`
	ImageURL  string   `dynamodbav:"image_url,omitempty"`
	CreatedAt string   `dynamodbav:"created_at"`
	UpdatedAt string   `dynamodbav:"updated_at"`
}

// DynamoCatalog implements catalog.Store on a DynamoDB table keyed by id.
// Listing is a table scan; the catalog is a few hundred documents at most,
// the same access pattern the hosted document database served.
type DynamoCatalog struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoCatalog(client *dynamodb.Client, tableName string) *DynamoCatalog {
	return &DynamoCatalog{client: client, tableName: tableName}
}

func (c *DynamoCatalog) Get(ctx context.Context, id string) (catalog.Product, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return catalog.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	if out.Item == nil {
		return catalog.Product{}, catalog.ErrProductNotFound
	}

	var doc dynamoProduct
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return catalog.Product{}, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return doc.toProduct()
}

func (c *DynamoCatalog) List(ctx context.Context) ([]catalog.Product, error) {
	out, err := c.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(c.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	var docs []dynamoProduct
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}

	products := make([]catalog.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (c *DynamoCatalog) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var products []catalog.Product
	for _, p := range all {
		if strings.EqualFold(p.Category, category) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (c *DynamoCatalog) Put(ctx context.Context, p catalog.Product) error {
	av, err := attributevalue.MarshalMap(fromProduct(p))
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put product: %w", err)
	}
	return nil
}

func (c *DynamoCatalog) Delete(ctx context.Context, id string) error {
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return catalog.ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func fromProduct(p catalog.Product) dynamoProduct {
	return dynamoProduct{
		ID:        p.ID,
		Brand:     p.Brand,
		Model:     p.Model,
		Name:      p.Name,
		Price:     p.Price.String(),
		Discount:  p.Discount.String(),
		Category:  p.Category,
		Sizes:     p.Sizes,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (d dynamoProduct) toProduct() (catalog.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product %s has malformed price: %w", d.ID, err)
	}
	discount := decimal.Zero
	if d.Discount != "" {
		discount, err = decimal.NewFromString(d.Discount)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("product %s has malformed discount: %w", d.ID, err)
		}
	}

	p := catalog.Product{
		ID:       d.ID,
		Brand:    d.Brand,
		Model:    d.Model,
		Name:     d.Name,
		Price:    price,
		Discount: discount,
		Category: d.Category,
		Sizes:    d.Sizes,
		ImageURL: d.ImageURL,
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.UpdatedAt)
	return p, nil
}

// dynamoQuotation is the order-record document shape. The item list is kept
// as a JSON blob: it is written once and only ever read back whole.
type dynamoQuotation struct {
	ID        string `dynamodbav:"id"`
	Items     string `dynamodbav:"items"`
	Subtotal  string `dynamodbav:"subtotal"`
	Shipping  string `dynamodbav:"shipping"`
	Total     string `dynamodbav:"total"`
	Status    string `dynamodbav:"status"`
	Method    string `dynamodbav:"method"`
	CreatedAt string `dynamodbav:"created_at"`
}

// DynamoOrders implements order.Repository on a DynamoDB table keyed by id.
type DynamoOrders struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoOrders(client *dynamodb.Client, tableName string) *DynamoOrders {
	return &DynamoOrders{client: client, tableName: tableName}
}

func (o *DynamoOrders) Save(ctx context.Context, snap checkout.Snapshot) error {
	items, err := json.Marshal(snap.Items)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(dynamoQuotation{
		ID:        snap.ID,
		Items:     string(items),
		Subtotal:  snap.Subtotal.String(),
		Shipping:  snap.Shipping.String(),
		Total:     snap.Total.String(),
		Status:    snap.Status,
		Method:    string(snap.Method),
		CreatedAt: snap.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal quotation: %w", err)
	}

	// Quotations are write-once.
	_, err = o.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(o.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return fmt.Errorf("failed to put quotation: %w", err)
	}
	return nil
}

func (o *DynamoOrders) Get(ctx context.Context, id string) (checkout.Snapshot, error) {
	out, err := o.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(o.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return checkout.Snapshot{}, fmt.Errorf("failed to get quotation: %w", err)
	}
	if out.Item == nil {
		return checkout.Snapshot{}, order.ErrNotFound
	}

	var doc dynamoQuotation
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("failed to unmarshal quotation: %w", err)
	}
	return doc.toSnapshot()
}

func (o *DynamoOrders) List(ctx context.Context) ([]checkout.Snapshot, error) {
	out, err := o.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(o.tableName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quotations: %w", err)
	}

	var docs []dynamoQuotation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &docs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quotations: %w", err)
	}

	orders := make([]checkout.Snapshot, 0, len(docs))
	for _, doc := range docs {
		snap, err := doc.toSnapshot()
		if err != nil {
			return nil, err
		}
		orders = append(orders, snap)
	}
	return orders, nil
}

func (o *DynamoOrders) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := o.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(o.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:    aws.String("SET #status = :status"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return order.ErrNotFound
		}
		return fmt.Errorf("failed to update quotation status: %w", err)
	}
	return nil
}

func (d dynamoQuotation) toSnapshot() (checkout.Snapshot, error) {
	snap := checkout.Snapshot{
		ID:     d.ID,
		Status: d.Status,
		Method: checkout.Method(d.Method),
	}

	if err := json.Unmarshal([]byte(d.Items), &snap.Items); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("quotation %s has malformed items: %w", d.ID, err)
	}

	var err error
	if snap.Subtotal, err = decimal.NewFromString(d.Subtotal); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("quotation %s has malformed subtotal: %w", d.ID, err)
	}
	if snap.Shipping, err = decimal.NewFromString(d.Shipping); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("quotation %s has malformed shipping: %w", d.ID, err)
	}
	if snap.Total, err = decimal.NewFromString(d.Total); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("quotation %s has malformed total: %w", d.ID, err)
	}
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
	return snap, nil
}

// dynamoStaff is the staff-directory document shape, keyed by email.
type dynamoStaff struct {
	Email        string `dynamodbav:"email"`
	ID           string `dynamodbav:"id"`
	Name         string `dynamodbav:"name,omitempty"`
	PasswordHash string `dynamodbav:"password_hash"`
	Role         string `dynamodbav:"role"`
	CreatedAt    string `dynamodbav:"created_at"`
}

// DynamoStaff implements auth.StaffDirectory on a DynamoDB table keyed by
// email.
type DynamoStaff struct {
	client    *dynamodb.Client
	tableName string
}

func NewDynamoStaff(client *dynamodb.Client, tableName string) *DynamoStaff {
	return &DynamoStaff{client: client, tableName: tableName}
}

func (s *DynamoStaff) GetByEmail(ctx context.Context, email string) (auth.Staff, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
	})
	if err != nil {
		return auth.Staff{}, fmt.Errorf("failed to get staff member: %w", err)
	}
	if out.Item == nil {
		return auth.Staff{}, auth.ErrStaffNotFound
	}

	var doc dynamoStaff
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return auth.Staff{}, fmt.Errorf("failed to unmarshal staff member: %w", err)
	}

	staff := auth.Staff{
		ID:           doc.ID,
		Email:        doc.Email,
		Name:         doc.Name,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
	}
	staff.CreatedAt, _ = time.Parse(time.RFC3339Nano, doc.CreatedAt)
	return staff, nil
}

// Put inserts or updates a staff account; used by the staffctl tool.
func (s *DynamoStaff) Put(ctx context.Context, staff auth.Staff) error {
	av, err := attributevalue.MarshalMap(dynamoStaff{
		Email:        strings.ToLower(staff.Email),
		ID:           staff.ID,
		Name:         staff.Name,
		PasswordHash: staff.PasswordHash,
		Role:         staff.Role,
		CreatedAt:    staff.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal staff member: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put staff member: %w", err)
	}
	return nil
}
