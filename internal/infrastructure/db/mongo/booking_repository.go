package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servibook/booking-platform/internal/core/domain"
	"github.com/servibook/booking-platform/internal/core/ports"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.AgentID != "" {
		query["agent_id"] = filter.AgentID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		query["reference"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(filter.Sort, filter.Order, "created_at")).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*domain.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, total, nil
}

// UpdateStatus sets the booking status with a compare-and-set: the filter
// matches only when the document still carries the expected status, so two
// racing transitions cannot both win. An empty expect skips the
// precondition (admin corrective edit). Returns false when the document
// exists but the precondition no longer holds.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, expect, next domain.BookingStatus, ts time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if expect != "" {
		filter["status"] = expect
	}
	update := bson.M{"$set": bson.M{
		"status":     next,
		"updated_at": ts.UTC(),
	}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing document from a lost CAS race.
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return false, findErr
		}
		return false, nil
	}
	return true, nil
}

func (r *BookingRepository) UpdateNotes(ctx context.Context, id string, notes, agentNotes *string, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": ts.UTC()}
	if notes != nil {
		set["notes"] = *notes
	}
	if agentNotes != nil {
		set["agent_notes"] = *agentNotes
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update booking notes: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) UpdateRating(ctx context.Context, id string, rating int, review string, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"review":     review,
		"updated_at": ts.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update booking rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// UpdateMany applies the bulk field set across all ids in one batched
// UpdateMany with an $in filter.
func (r *BookingRepository) UpdateMany(ctx context.Context, ids []string, set ports.BulkSet, ts time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields := bson.M{"updated_at": ts.UTC()}
	if set.Status != nil {
		fields["status"] = *set.Status
	}
	if set.AgentID != nil {
		fields["agent_id"] = *set.AgentID
	}
	if set.PaymentStatus != nil {
		fields["payment_status"] = *set.PaymentStatus
	}

	res, err := r.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": fields})
	if err != nil {
		return 0, fmt.Errorf("bulk update bookings: %w", err)
	}
	// MatchedCount, not ModifiedCount: the reported count covers every id
	// the action was applied to, including documents already in the target
	// state.
	return res.MatchedCount, nil
}

// DeleteMany hard-removes all ids in one batched delete.
func (r *BookingRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("bulk delete bookings: %w", err)
	}
	return res.DeletedCount, nil
}

// ExistsBetween reports whether any booking joins the given customer and agent.
func (r *BookingRepository) ExistsBetween(ctx context.Context, userID, agentID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID, "agent_id": agentID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count bookings between: %w", err)
	}
	return n > 0, nil
}

// EnsureIndexes creates the indexes the booking queries depend on.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "reference", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "agent_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
