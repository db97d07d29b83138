package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
	sharedMongo "github.com/facilitymanager1/fieldsync-sub006/pkg/mongodb"
)

const shiftsCollection = "shifts"

// terminalStates is the filter value for closed shifts
var terminalStates = []domain.ShiftState{domain.StateCompleted, domain.StateCancelled}

// ShiftRepository persists shift aggregates in MongoDB
type ShiftRepository struct {
	collection *sharedMongo.InstrumentedCollection
	logger     *logging.Logger
}

// NewShiftRepository creates a ShiftRepository on the shifts collection
func NewShiftRepository(client *sharedMongo.InstrumentedClient, logger *logging.Logger) *ShiftRepository {
	repo := &ShiftRepository{
		collection: client.Collection(shiftsCollection),
		logger:     logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	repo.ensureIndexes(ctx)

	return repo
}

// ensureIndexes creates the collection indexes. The partial unique index on
// workerId enforces at most one non-terminal shift per worker at the
// storage level, backing up the application-level check.
func (r *ShiftRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "shiftId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "workerId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"state": bson.M{"$nin": terminalStates}}),
		},
		{Keys: bson.D{{Key: "workerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "siteId", Value: 1}}},
	}
	for _, index := range indexes {
		if _, err := r.collection.CreateIndex(ctx, index); err != nil && r.logger != nil {
			r.logger.WithError(err).Warn("Failed to create shift index")
		}
	}
}

// Save upserts the shift aggregate keyed by shiftId
func (r *ShiftRepository) Save(ctx context.Context, shift *domain.Shift) error {
	shift.UpdatedAt = sharedMongo.Now()

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"shiftId": shift.ShiftID}
	update := sharedMongo.BuildUpdate(shift)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save shift: %w", err)
	}
	return nil
}

// FindByID returns the shift with the given ID, or nil when absent
func (r *ShiftRepository) FindByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	var shift domain.Shift
	err := r.collection.FindOne(ctx, bson.M{"shiftId": shiftID}).Decode(&shift)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindActiveByWorker returns the worker's non-terminal shift, or nil when the
// worker has none
func (r *ShiftRepository) FindActiveByWorker(ctx context.Context, workerID string) (*domain.Shift, error) {
	filter := bson.M{
		"workerId": workerID,
		"state":    bson.M{"$nin": terminalStates},
	}
	var shift domain.Shift
	err := r.collection.FindOne(ctx, filter).Decode(&shift)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindByWorker returns the worker's shifts, newest first
func (r *ShiftRepository) FindByWorker(ctx context.Context, workerID string, limit, offset int) ([]*domain.Shift, error) {
	opts := options.Find().
		SetSort(sharedMongo.SortDescending("createdAt")).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{"workerId": workerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shifts []*domain.Shift
	err = cursor.All(ctx, &shifts)
	return shifts, err
}

// FindByState returns all shifts currently in the given state
func (r *ShiftRepository) FindByState(ctx context.Context, state domain.ShiftState) ([]*domain.Shift, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"state": state})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shifts []*domain.Shift
	err = cursor.All(ctx, &shifts)
	return shifts, err
}

// Delete removes a shift by ID
func (r *ShiftRepository) Delete(ctx context.Context, shiftID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"shiftId": shiftID})
	return err
}
