package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
	sharedMongo "github.com/facilitymanager1/fieldsync-sub006/pkg/mongodb"
)

const geofencesCollection = "geofences"

// GeofenceRepository serves site geofences from MongoDB. It implements
// domain.GeofenceRegistry.
type GeofenceRepository struct {
	collection *sharedMongo.InstrumentedCollection
	logger     *logging.Logger
}

// NewGeofenceRepository creates a GeofenceRepository on the geofences collection
func NewGeofenceRepository(client *sharedMongo.InstrumentedClient, logger *logging.Logger) *GeofenceRepository {
	repo := &GeofenceRepository{
		collection: client.Collection(geofencesCollection),
		logger:     logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	repo.ensureIndexes(ctx)

	return repo
}

func (r *GeofenceRepository) ensureIndexes(ctx context.Context) {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "siteId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "siteId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for _, index := range indexes {
		if _, err := r.collection.CreateIndex(ctx, index); err != nil && r.logger != nil {
			r.logger.WithError(err).Warn("Failed to create geofence index")
		}
	}
}

// GetGeofencesForSite implements domain.GeofenceRegistry. A site with no
// registered fences yields an empty slice, not an error.
func (r *GeofenceRepository) GetGeofencesForSite(ctx context.Context, siteID string) ([]domain.Geofence, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"siteId": siteID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fences []domain.Geofence
	if err := cursor.All(ctx, &fences); err != nil {
		return nil, err
	}
	return fences, nil
}

// Save upserts a geofence keyed by site and name
func (r *GeofenceRepository) Save(ctx context.Context, fence domain.Geofence) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"siteId": fence.SiteID, "name": fence.Name}
	update := sharedMongo.BuildUpdate(fence)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Delete removes a geofence by site and name
func (r *GeofenceRepository) Delete(ctx context.Context, siteID, name string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"siteId": siteID, "name": name})
	return err
}
