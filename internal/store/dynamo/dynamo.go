// Package dynamo implements the transaction store on AWS DynamoDB.
//
// The table uses userId as the partition key and id as the sort key, so
// every query is scoped to one user. Atomic batches ride on
// TransactWriteItems, whose 100-item ceiling matches the expansion limit.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/lucasamarante27/my-contabil/internal/core"
	"github.com/lucasamarante27/my-contabil/internal/store"
)

type Config struct {
	Region   string
	Table    string
	Endpoint string
}

type Store struct {
	client *dynamodb.Client
	table  string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			// Local endpoint, e.g. dynamodb-local in docker compose.
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	s := &Store{client: client, table: cfg.Table}

	if _, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.Table),
	}); err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("table %s does not exist", cfg.Table)
		}
		return nil, fmt.Errorf("describe table: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return nil
}

// record is the DynamoDB shape of a transaction. Dates are stored as
// ISO "2006-01-02" strings so range filters compare lexically.
type record struct {
	UserID             string `dynamodbav:"userId"`
	ID                 string `dynamodbav:"id"`
	Description        string `dynamodbav:"description"`
	AmountCents        int64  `dynamodbav:"amountCents"`
	Date               string `dynamodbav:"txDate"`
	Type               string `dynamodbav:"txType"`
	InstallmentID      string `dynamodbav:"installmentId,omitempty"`
	InstallmentCurrent int    `dynamodbav:"installmentCurrent,omitempty"`
	InstallmentTotal   int    `dynamodbav:"installmentTotal,omitempty"`
	RecurringID        string `dynamodbav:"recurringId,omitempty"`
	CardName           string `dynamodbav:"cardName,omitempty"`
}

func toRecord(t core.Transaction) record {
	r := record{
		UserID:      t.UserID,
		ID:          t.ID,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Date:        t.Date.String(),
		Type:        string(t.Type),
		RecurringID: t.RecurringID,
		CardName:    t.CardName,
	}
	if t.Installment != nil {
		r.InstallmentID = t.Installment.InstallmentID
		r.InstallmentCurrent = t.Installment.Current
		r.InstallmentTotal = t.Installment.Total
	}
	return r
}

func (r record) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", r.Date, err)
	}
	t := core.Transaction{
		ID:          r.ID,
		UserID:      r.UserID,
		Description: r.Description,
		Amount:      core.Money{Cents: r.AmountCents},
		Date:        date,
		Type:        core.TransactionType(r.Type),
		RecurringID: r.RecurringID,
		CardName:    r.CardName,
	}
	if r.InstallmentID != "" {
		t.Installment = &core.InstallmentDetails{
			InstallmentID: r.InstallmentID,
			Current:       r.InstallmentCurrent,
			Total:         r.InstallmentTotal,
		}
	}
	return t, nil
}

func (s *Store) PutBatch(ctx context.Context, ts []core.Transaction) ([]core.Transaction, error) {
	if len(ts) > core.ExpansionLimit {
		return nil, store.ErrBatchTooLarge
	}

	out := make([]core.Transaction, len(ts))
	items := make([]types.TransactWriteItem, 0, len(ts))
	for i, t := range ts {
		t.ID = uuid.NewString()
		item, err := attributevalue.MarshalMap(toRecord(t))
		if err != nil {
			return nil, fmt.Errorf("marshal batch record %d: %w", i, err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.table),
				Item:      item,
			},
		})
		out[i] = t
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return nil, fmt.Errorf("transact write: %w", err)
	}

	slog.InfoContext(ctx, "Transaction batch saved to DynamoDB",
		"count", len(out),
		"user_id", ts[0].UserID)

	return out, nil
}

func (s *Store) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
			"id":     &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if len(result.Item) == 0 {
		return core.Transaction{}, store.ErrNotFound
	}

	var r record
	if err := attributevalue.UnmarshalMap(result.Item, &r); err != nil {
		return core.Transaction{}, fmt.Errorf("unmarshal transaction: %w", err)
	}
	return r.toTransaction()
}

func (s *Store) ListThrough(ctx context.Context, userID string, cutoff core.Date) ([]core.Transaction, error) {
	return s.query(ctx, userID,
		aws.String("txDate <= :cutoff"),
		map[string]types.AttributeValue{
			":cutoff": &types.AttributeValueMemberS{Value: cutoff.String()},
		})
}

func (s *Store) ListBetween(ctx context.Context, userID string, from, to core.Date) ([]core.Transaction, error) {
	return s.query(ctx, userID,
		aws.String("txDate BETWEEN :from AND :to"),
		map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: from.String()},
			":to":   &types.AttributeValueMemberS{Value: to.String()},
		})
}

func (s *Store) ListGroup(ctx context.Context, userID string, q store.GroupQuery) ([]core.Transaction, error) {
	attr := "installmentId"
	if q.Recurring {
		attr = "recurringId"
	}
	return s.query(ctx, userID,
		aws.String(attr+" = :group AND txDate >= :from"),
		map[string]types.AttributeValue{
			":group": &types.AttributeValueMemberS{Value: q.GroupID},
			":from":  &types.AttributeValueMemberS{Value: q.From.String()},
		})
}

func (s *Store) DeleteAll(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > core.ExpansionLimit {
		return store.ErrBatchTooLarge
	}

	items := make([]types.TransactWriteItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(s.table),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: userID},
					"id":     &types.AttributeValueMemberS{Value: id},
				},
				// A missing member cancels the whole transaction.
				ConditionExpression: aws.String("attribute_exists(id)"),
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
					return store.ErrNotFound
				}
			}
		}
		return fmt.Errorf("transact delete: %w", err)
	}

	slog.InfoContext(ctx, "Transactions deleted from DynamoDB",
		"count", len(ids),
		"user_id", userID)

	return nil
}

func (s *Store) query(ctx context.Context, userID string, filter *string, values map[string]types.AttributeValue) ([]core.Transaction, error) {
	values[":userId"] = &types.AttributeValueMemberS{Value: userID}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    aws.String("userId = :userId"),
		FilterExpression:          filter,
		ExpressionAttributeValues: values,
		ConsistentRead:            aws.Bool(true),
	}

	var out []core.Transaction
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query transactions: %w", err)
		}
		for _, item := range page.Items {
			var r record
			if err := attributevalue.UnmarshalMap(item, &r); err != nil {
				return nil, fmt.Errorf("unmarshal transaction: %w", err)
			}
			t, err := r.toTransaction()
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
	}

	// The sort key is id, so order by date here.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
