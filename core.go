package geoquiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemNotFound is returned by a [Store] when no item exists for a key.
var ErrItemNotFound = errors.New("item not found")

// Clock is a function type that returns the current time for dependency injection.
type Clock func() time.Time

// DefaultClock returns the current UTC time.
func DefaultClock() time.Time {
	return time.Now().UTC()
}

// Table contains DynamoDB table configuration.
type Table struct {
	TableName    string // Main table name
	RefIndexName string // Optional ref index (label hash key, gsi1_sk range key). Empty disables index lookups.
}

// NewTable creates a new Table with default configuration. The ref index is
// disabled; lookups that could use it fall back to a filtered scan.
func NewTable(tableName string) *Table {
	return &Table{
		TableName: tableName,
	}
}

// MarshalOptions contains configuration options for marshaling entities to records.
type MarshalOptions struct {
	SourceID     string    // The partition entity identifier
	SourcePrefix string    // The partition entity prefix, usually the entity type
	TargetID     string    // The sort entity identifier
	TargetPrefix string    // The sort entity prefix
	Label        string    // The record label
	RefSortKey   string    // Lookup value stored on the ref index sort key
	Created      time.Time // Creation timestamp
	Updated      time.Time // Modification timestamp
	Tick         Clock     // Function to get current time for timestamps
}

// WithSelfTarget configures the MarshalOptions for an entity that occupies a
// single row, where the partition and sort keys are equal.
func (mo *MarshalOptions) WithSelfTarget(prefix, id string) *MarshalOptions {
	mo.SourceID = id
	mo.TargetID = id
	mo.SourcePrefix = prefix
	mo.TargetPrefix = prefix
	mo.Label = prefix
	return mo
}

func (mo *MarshalOptions) apply(opts []func(*MarshalOptions)) {
	for _, opt := range opts {
		opt(mo)
	}
}

func (mo MarshalOptions) sourceKey() string {
	return EntityKey(mo.SourcePrefix, mo.SourceID)
}

func (mo MarshalOptions) targetKey() string {
	return EntityKey(mo.TargetPrefix, mo.TargetID)
}

func newMarshalOptions(opts ...func(*MarshalOptions)) MarshalOptions {
	options := MarshalOptions{
		Tick: DefaultClock,
	}
	options.apply(opts)
	return options
}

// Record is the row layout shared by every entity in the table.
//
//	| hk         | sk             | label              | gsi1_sk    |
//	| ========== | ============== | ================== | ========== |
//	| USER#U1    | USER#U1        | USER               | alice      |
//	| QUIZ#Q1    | QUIZ#Q1        | QUIZ               | <created>  |
//	| QUIZ#Q1    | QUESTION#X1    | QUIZ/Q1/questions  | <created>  |
//
// Questions share the partition of their quiz, so a quiz and all its
// questions are read or deleted with a single partition query.
type Record struct {
	Source    string    `dynamodbav:"hk"`                // The partition key (prefix + id)
	Target    string    `dynamodbav:"sk"`                // The sort key (prefix + id)
	Label     string    `dynamodbav:"label"`             // The entity label
	CreatedAt time.Time `dynamodbav:"created_at"`        // creation timestamp
	UpdatedAt time.Time `dynamodbav:"updated_at"`        // modification timestamp
	Data      any       `dynamodbav:"data,omitempty"`    // entity data
	GSI1SK    string    `dynamodbav:"gsi1_sk,omitempty"` // sort key for the ref index
}

const (
	AttributeNameSource     = "hk"
	AttributeNameTarget     = "sk"
	AttributeNameLabel      = "label"
	AttributeNameCreated    = "created_at"
	AttributeNameUpdated    = "updated_at"
	AttributeNameData       = "data"
	AttributeNameRefSortKey = "gsi1_sk"
)

// NewRecord builds the record for data using the marshaled options.
func NewRecord(data any, opts MarshalOptions) Record {
	if opts.Created.IsZero() {
		opts.Created = opts.Tick()
	}
	if opts.Updated.IsZero() {
		opts.Updated = opts.Created
	}

	return Record{
		Source:    opts.sourceKey(),
		Target:    opts.targetKey(),
		Label:     opts.Label,
		CreatedAt: opts.Created,
		UpdatedAt: opts.Updated,
		Data:      data,
		GSI1SK:    opts.RefSortKey,
	}
}

// Key returns the composite key of the record.
func (r Record) Key() Key {
	return Key{Partition: r.Source, Sort: r.Target}
}

// Marshaler can marshal itself into record options.
type Marshaler interface {
	// MarshalSelf is invoked by [MarshalRecord]. Implementers should adjust
	// the provided options to set the keys and label of the Record.
	MarshalSelf(*MarshalOptions) error
}

// Unmarshaler can extract data about itself from the provided Record.
type Unmarshaler interface {
	// UnmarshalSelf is invoked by [UnmarshalRecord] after the record data has
	// been decoded into the implementer.
	UnmarshalSelf(*Record) error
}

// MarshalRecord marshals the input into its table record.
func MarshalRecord(in Marshaler, opts ...func(*MarshalOptions)) (Record, error) {
	marshalOpts := newMarshalOptions(opts...)

	if err := in.MarshalSelf(&marshalOpts); err != nil {
		return Record{}, fmt.Errorf("failed to marshal self: %w", err)
	}

	if marshalOpts.SourcePrefix == "" || marshalOpts.SourceID == "" {
		return Record{}, fmt.Errorf("partition key requires a prefix and id")
	}
	if marshalOpts.TargetPrefix == "" || marshalOpts.TargetID == "" {
		return Record{}, fmt.Errorf("sort key requires a prefix and id")
	}

	return NewRecord(in, marshalOpts), nil
}

// MarshalItem marshals the input into a DynamoDB item ready to be stored.
func MarshalItem(in Marshaler, opts ...func(*MarshalOptions)) (Item, error) {
	rec, err := MarshalRecord(in, opts...)
	if err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	return item, nil
}

// Item is an alias for the dynamodb attribute value map.
type Item = map[string]types.AttributeValue

// UnmarshalRecord extracts the data out of item, unmarshals it to out, then
// unmarshals the entire item to a [Record]. If out implements [Unmarshaler],
// its UnmarshalSelf method is invoked with the record.
func UnmarshalRecord(item Item, out any) (Record, error) {
	var rec Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return rec, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	if data, ok := item[AttributeNameData]; !ok {
		return rec, fmt.Errorf("data attribute not found")
	} else if err := attributevalue.Unmarshal(data, out); err != nil {
		return rec, fmt.Errorf("failed to unmarshal data: %w", err)
	}

	unmarshaler, ok := out.(Unmarshaler)
	if !ok {
		return rec, nil
	}

	if err := unmarshaler.UnmarshalSelf(&rec); err != nil {
		return rec, fmt.Errorf("failed to unmarshal self: %w", err)
	}

	return rec, nil
}

// UnmarshalTableKey extracts the partition and sort keys from a DynamoDB item.
// Returns an error if either key is missing from the item.
func UnmarshalTableKey(item Item) (Key, error) {
	var (
		hk, hkexists = item[AttributeNameSource]
		sk, skexists = item[AttributeNameTarget]
		key          Key
	)

	if !hkexists || !skexists {
		return key, fmt.Errorf("source and target keys not found")
	}

	err := errors.Join(
		attributevalue.Unmarshal(hk, &key.Partition),
		attributevalue.Unmarshal(sk, &key.Sort),
	)

	return key, err
}

// UnmarshalList calls [UnmarshalRecord] on each item in items and appends the
// result to out.
func UnmarshalList[T any](items []Item, out *[]T) ([]Record, error) {
	var records []Record

	for i, item := range items {
		var value T
		rec, err := UnmarshalRecord(item, &value)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal item %d: %w", i, err)
		}
		*out = append(*out, value)
		records = append(records, rec)
	}

	return records, nil
}

// DynamoDBClient is the subset of the DynamoDB API used by [DynamoStore] and
// the test helpers.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}
