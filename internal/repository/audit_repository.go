package repository

import (
	"context"
	"time"

	"github.com/guttosm/storefront-cart/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository stores the audit trail of cart mutations.
type AuditRepository struct {
	collection *mongo.Collection
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *MongoDB) *AuditRepository {
	return &AuditRepository{
		collection: db.AuditLogs,
	}
}

func prepareAuditEntry(entry *model.AuditEntry) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
}

// Create inserts a single audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditEntry) error {
	prepareAuditEntry(entry)
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany inserts audit entries in bulk.
func (r *AuditRepository) CreateMany(ctx context.Context, entries []*model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, entry := range entries {
		prepareAuditEntry(entry)
		docs[i] = entry
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func auditFilter(opts model.AuditQueryOptions) bson.M {
	filter := bson.M{}

	if opts.UserID != "" {
		filter["user_id"] = opts.UserID
	}
	if opts.Operation != "" {
		filter["operation"] = opts.Operation
	}
	if opts.Outcome != "" {
		filter["outcome"] = opts.Outcome
	}
	if opts.StartTime != nil || opts.EndTime != nil {
		timeFilter := bson.M{}
		if opts.StartTime != nil {
			timeFilter["$gte"] = *opts.StartTime
		}
		if opts.EndTime != nil {
			timeFilter["$lte"] = *opts.EndTime
		}
		filter["timestamp"] = timeFilter
	}
	return filter
}

// Query returns audit entries matching opts, newest first.
func (r *AuditRepository) Query(ctx context.Context, opts model.AuditQueryOptions) ([]*model.AuditEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, auditFilter(opts), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var entries []*model.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of audit entries matching opts.
func (r *AuditRepository) Count(ctx context.Context, opts model.AuditQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, auditFilter(opts))
}
