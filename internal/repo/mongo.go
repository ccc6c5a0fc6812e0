package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/job_portal/internal/models"
)

const (
	collUsers         = "users"
	collAdminRequests = "adminrequests"
	collJobs          = "jobs"
	collApplications  = "applications"
)

// MongoRepo stores the same records as GormRepo in MongoDB collections.
type MongoRepo struct {
	client *mongo.Client
	db     *mongo.Database
}

func OpenMongo(ctx context.Context, uri, dbName string) (*MongoRepo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	r := &MongoRepo{client: client, db: client.Database(dbName)}
	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

func (r *MongoRepo) ensureIndexes(ctx context.Context) error {
	idx := []struct {
		coll  string
		model mongo.IndexModel
	}{
		{collUsers, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{collAdminRequests, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}}},
		{collJobs, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		{collApplications, mongo.IndexModel{
			Keys:    bson.D{{Key: "jobId", Value: 1}, {Key: "applicantId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{collApplications, mongo.IndexModel{Keys: bson.D{{Key: "jobPostedBy", Value: 1}}}},
	}
	for _, i := range idx {
		if _, err := r.db.Collection(i.coll).Indexes().CreateOne(ctx, i.model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.coll, err)
		}
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func (r *MongoRepo) insert(ctx context.Context, coll string, doc any) error {
	_, err := r.db.Collection(coll).InsertOne(ctx, doc)
	return mongoErr(err)
}

func (r *MongoRepo) findOne(ctx context.Context, coll string, filter bson.M, out any) error {
	return mongoErr(r.db.Collection(coll).FindOne(ctx, filter).Decode(out))
}

func (r *MongoRepo) findMany(ctx context.Context, coll string, filter bson.M, out any, opts ...*options.FindOptions) error {
	cur, err := r.db.Collection(coll).Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (r *MongoRepo) replace(ctx context.Context, coll, id string, doc any) error {
	res, err := r.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) setFields(ctx context.Context, coll, id string, fields bson.M) error {
	fields["updatedAt"] = now()
	res, err := r.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) deleteOne(ctx context.Context, coll, id string) error {
	res, err := r.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.CreatedAt, u.UpdatedAt = now(), now()
	return r.insert(ctx, collUsers, u)
}

func (r *MongoRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.findOne(ctx, collUsers, bson.M{"_id": id}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.findOne(ctx, collUsers, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) SaveUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	return r.replace(ctx, collUsers, u.ID, u)
}

func (r *MongoRepo) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	users := []models.User{}
	if err := r.findMany(ctx, collUsers, bson.M{"role": role}, &users, newestFirst("createdAt")); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoRepo) DeleteUser(ctx context.Context, id string) error {
	return r.deleteOne(ctx, collUsers, id)
}

func (r *MongoRepo) CreateAdminRequest(ctx context.Context, req *models.AdminRequest) error {
	ensureID(&req.ID)
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	req.CreatedAt, req.UpdatedAt = now(), now()
	return r.insert(ctx, collAdminRequests, req)
}

func (r *MongoRepo) FindAdminRequestByID(ctx context.Context, id string) (*models.AdminRequest, error) {
	var req models.AdminRequest
	if err := r.findOne(ctx, collAdminRequests, bson.M{"_id": id}, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *MongoRepo) AdminRequestExists(ctx context.Context, email string) (bool, error) {
	n, err := r.db.Collection(collAdminRequests).CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoRepo) ListAdminRequests(ctx context.Context) ([]models.AdminRequest, error) {
	reqs := []models.AdminRequest{}
	if err := r.findMany(ctx, collAdminRequests, bson.M{}, &reqs, newestFirst("createdAt")); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *MongoRepo) UpdateAdminRequestStatus(ctx context.Context, id, status string) error {
	return r.setFields(ctx, collAdminRequests, id, bson.M{"status": status})
}

func (r *MongoRepo) CreateJob(ctx context.Context, j *models.Job) error {
	ensureID(&j.ID)
	j.CreatedAt, j.UpdatedAt = now(), now()
	return r.insert(ctx, collJobs, j)
}

func (r *MongoRepo) FindJobByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := r.findOne(ctx, collJobs, bson.M{"_id": id}, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *MongoRepo) ListJobs(ctx context.Context, offset, limit int) (int64, []models.Job, error) {
	coll := r.db.Collection(collJobs)
	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, nil, err
	}

	items := make([]models.Job, 0, limit)
	opts := newestFirst("createdAt").SetSkip(int64(offset)).SetLimit(int64(limit))
	if err := r.findMany(ctx, collJobs, bson.M{}, &items, opts); err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *MongoRepo) SaveJob(ctx context.Context, j *models.Job) error {
	j.UpdatedAt = now()
	return r.replace(ctx, collJobs, j.ID, j)
}

func (r *MongoRepo) DeleteJob(ctx context.Context, id string) error {
	return r.deleteOne(ctx, collJobs, id)
}

func (r *MongoRepo) CreateApplication(ctx context.Context, a *models.Application) error {
	ensureID(&a.ID)
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	if a.AppliedOn.IsZero() {
		a.AppliedOn = now()
	}
	a.UpdatedAt = now()
	return r.insert(ctx, collApplications, a)
}

func (r *MongoRepo) FindApplicationByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	if err := r.findOne(ctx, collApplications, bson.M{"_id": id}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepo) ApplicationExists(ctx context.Context, jobID, applicantID string) (bool, error) {
	n, err := r.db.Collection(collApplications).CountDocuments(ctx,
		bson.M{"jobId": jobID, "applicantId": applicantID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoRepo) ListApplicationsByPoster(ctx context.Context, email string) ([]models.Application, error) {
	apps := []models.Application{}
	if err := r.findMany(ctx, collApplications, bson.M{"jobPostedBy": email}, &apps, newestFirst("appliedOn")); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *MongoRepo) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	apps := []models.Application{}
	if err := r.findMany(ctx, collApplications, bson.M{"applicantId": applicantID}, &apps, newestFirst("appliedOn")); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *MongoRepo) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	return r.setFields(ctx, collApplications, id, bson.M{"status": status})
}

func (r *MongoRepo) DeleteApplicationsForJob(ctx context.Context, jobID string) error {
	_, err := r.db.Collection(collApplications).DeleteMany(ctx, bson.M{"jobId": jobID})
	return err
}
