package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/pkg/model"
)

const (
	CollectionName = "Journal"
)

var ErrNotFound = errors.New("journal entry not found")

// JournalRepository records confirmed bookings locally. The booking API stays
// the source of truth; the journal only remembers what this gateway booked.
type JournalRepository interface {
	Save(ctx context.Context, entry *model.JournalEntry) error
	FindByBookingCode(ctx context.Context, code string) (*model.JournalEntry, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, error)
	Count(ctx context.Context) (int64, error)
}

type mongoJournalRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoJournalRepository(db *mongo.Database, timeout time.Duration) JournalRepository {
	return &mongoJournalRepository{
		collection: db.Collection(CollectionName),
		timeout:    timeout,
	}
}

// EnsureIndexes makes booking codes unique so a replayed confirmation is not
// journaled twice.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create journal index: %w", err)
	}
	return nil
}

// withTimeout keeps the caller's deadline when it is sooner.
func (r *mongoJournalRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < r.timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *mongoJournalRepository) Save(ctx context.Context, entry *model.JournalEntry) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	filter := bson.M{"booking_code": entry.BookingCode}
	update := bson.M{"$setOnInsert": entry}
	if _, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	return nil
}

func (r *mongoJournalRepository) FindByBookingCode(ctx context.Context, code string) (*model.JournalEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var entry model.JournalEntry
	err := r.collection.FindOne(ctx, bson.M{"booking_code": code}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry: %w", err)
	}
	return &entry, nil
}

func (r *mongoJournalRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.JournalEntry, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []*model.JournalEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode journal entries: %w", err)
	}
	return entries, nil
}

func (r *mongoJournalRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return count, nil
}
