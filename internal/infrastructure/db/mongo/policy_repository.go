package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/insurancereminder/policy-engine/internal/core/domain"
)

const collectionPolicies = "policies"

// PolicyRepository is the cloud policy store.
type PolicyRepository struct {
	col *mongo.Collection
}

func NewPolicyRepository(db *mongo.Database) *PolicyRepository {
	return &PolicyRepository{col: db.Collection(collectionPolicies)}
}

// Add inserts a new policy document with a store-assigned id.
func (r *PolicyRepository) Add(ctx context.Context, p *domain.Policy) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	record := *p
	record.ID = primitive.NewObjectID().Hex()
	record.IsActive = true

	if _, err := r.col.InsertOne(ctx, record); err != nil {
		return "", fmt.Errorf("insert policy: %w", err)
	}
	return record.ID, nil
}

// Update replaces the document carrying the policy's id.
func (r *PolicyRepository) Update(ctx context.Context, p *domain.Policy) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update policy: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPolicyNotFound
	}
	return nil
}

// Delete soft-deletes: the document stays, flagged inactive.
func (r *PolicyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}
	return nil
}

func (r *PolicyRepository) Get(ctx context.Context, id string) (*domain.Policy, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Policy
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("find policy: %w", err)
	}
	return &p, nil
}

// StreamAll is a live query over the whole collection, driven by a change
// stream: one snapshot on subscription, then a fresh one after every write.
func (r *PolicyRepository) StreamAll(ctx context.Context) (<-chan []domain.Policy, error) {
	return r.stream(ctx, bson.M{})
}

// StreamActiveForUser filters by owner only. The backend's query capability
// is treated as partial: active-filtering and ordering are the router's job.
func (r *PolicyRepository) StreamActiveForUser(ctx context.Context, userID string) (<-chan []domain.Policy, error) {
	return r.stream(ctx, bson.M{"user_id": userID})
}

func (r *PolicyRepository) stream(ctx context.Context, filter bson.M) (<-chan []domain.Policy, error) {
	cs, err := r.col.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("watch policies: %w", err)
	}

	out := make(chan []domain.Policy, 1)

	// latest-wins: a slow consumer always reads the newest snapshot
	emit := func(snap []domain.Policy) {
		for {
			select {
			case out <- snap:
				return
			default:
				select {
				case <-out:
				default:
				}
			}
		}
	}

	go func() {
		defer close(out)
		defer func() { _ = cs.Close(context.Background()) }()

		if snap, err := r.fetch(ctx, filter); err == nil {
			emit(snap)
		}
		for cs.Next(ctx) {
			if snap, err := r.fetch(ctx, filter); err == nil {
				emit(snap)
			}
		}
	}()

	return out, nil
}

func (r *PolicyRepository) fetch(ctx context.Context, filter bson.M) ([]domain.Policy, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find policies: %w", err)
	}
	var out []domain.Policy
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode policies: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the indexes the live queries rely on.
func (r *PolicyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
		{Keys: bson.D{{Key: "expiry_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
