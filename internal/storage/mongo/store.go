// Package mongo implements the storage contract against MongoDB, the
// store the production deployment runs on. The conditional routine
// replace is a ReplaceOne filtered on both id and version, so a racing
// writer matches zero documents instead of clobbering.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/routinely/routinely/internal/models"
	"github.com/routinely/routinely/internal/storage"
)

const connectTimeout = 10 * time.Second

type Store struct {
	uri    string
	dbName string
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(uri, dbName string) *Store {
	return &Store{uri: uri, dbName: dbName}
}

func (s *Store) Init() error {
	if s.uri == "" {
		return errors.New("mongodb uri not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to reach mongodb: %w", err)
	}
	s.client = client
	s.db = client.Database(s.dbName)
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) routines() *mongo.Collection   { return s.db.Collection("routines") }
func (s *Store) activities() *mongo.Collection { return s.db.Collection("activities") }
func (s *Store) completed() *mongo.Collection  { return s.db.Collection("completedActivities") }
func (s *Store) users() *mongo.Collection      { return s.db.Collection("users") }

func (s *Store) GetRoutine(ctx context.Context, userID string) (models.Routine, error) {
	var routine models.Routine
	err := s.routines().FindOne(ctx, bson.M{"userId": userID}).Decode(&routine)
	if err == mongo.ErrNoDocuments {
		return models.Routine{}, fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, userID)
	}
	if err != nil {
		return models.Routine{}, err
	}
	return routine, nil
}

func (s *Store) InsertRoutine(ctx context.Context, routine models.Routine) error {
	_, err := s.routines().InsertOne(ctx, routine)
	return err
}

func (s *Store) ReplaceRoutine(ctx context.Context, routine models.Routine, expectedVersion int64) error {
	res, err := s.routines().ReplaceOne(ctx,
		bson.M{"userId": routine.UserID, "version": expectedVersion}, routine)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := s.routines().CountDocuments(ctx, bson.M{"userId": routine.UserID})
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: no routine for user %s", models.ErrNotFound, routine.UserID)
		}
		return fmt.Errorf("%w: user %s", storage.ErrVersionMismatch, routine.UserID)
	}
	return nil
}

func (s *Store) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	cursor, err := s.routines().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var routines []models.Routine
	if err := cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

func (s *Store) GetActivity(ctx context.Context, id string) (models.Activity, error) {
	var activity models.Activity
	err := s.activities().FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err == mongo.ErrNoDocuments {
		return models.Activity{}, fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

func (s *Store) InsertActivity(ctx context.Context, activity models.Activity) error {
	_, err := s.activities().InsertOne(ctx, activity)
	return err
}

func (s *Store) ReplaceActivity(ctx context.Context, activity models.Activity) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.activities().ReplaceOne(ctx, bson.M{"_id": activity.ID}, activity, opts)
	return err
}

func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.activities().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: no activity with id %s", models.ErrNotFound, id)
	}
	return nil
}

func (s *Store) ListActivities(ctx context.Context) ([]models.Activity, error) {
	cursor, err := s.activities().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *Store) ResetCompletedForUser(ctx context.Context, userID string) (int, error) {
	res, err := s.activities().UpdateMany(ctx,
		bson.M{"userId": userID, "isCompleted": true},
		bson.M{"$set": bson.M{"isCompleted": false}})
	if err != nil {
		return 0, err
	}

	// Rewrite the embedded copies in the routine doc. Unconditional:
	// the reset only clears flags, last write wins by design.
	var routine models.Routine
	err = s.routines().FindOne(ctx, bson.M{"userId": userID}).Decode(&routine)
	if err != nil && err != mongo.ErrNoDocuments {
		return 0, err
	}
	if err == nil && routine.ResetCompleted() > 0 {
		if _, err := s.routines().ReplaceOne(ctx, bson.M{"userId": userID}, routine); err != nil {
			return 0, err
		}
	}

	return int(res.ModifiedCount), nil
}

func (s *Store) InsertCompletedActivity(ctx context.Context, record models.CompletedActivity) error {
	_, err := s.completed().InsertOne(ctx, record)
	return err
}

func (s *Store) DeleteLatestCompletedActivity(ctx context.Context, activityID string) error {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	err := s.completed().FindOneAndDelete(ctx, bson.M{"activityId": activityID}, opts).Err()
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("%w: no completed record for activity %s", models.ErrNotFound, activityID)
	}
	return err
}

func (s *Store) ListCompletedActivities(ctx context.Context) ([]models.CompletedActivity, error) {
	cursor, err := s.completed().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var records []models.CompletedActivity
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, fmt.Errorf("%w: no user with id %s", models.ErrNotFound, id)
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) InsertUser(ctx context.Context, user models.User) error {
	_, err := s.users().InsertOne(ctx, user)
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
