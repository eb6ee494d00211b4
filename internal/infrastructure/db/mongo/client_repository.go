package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

const collectionClients = "clients"

// recentWindow is the trailing window used for the "recent clients" counter.
const recentWindow = 30 * 24 * time.Hour

// ClientRepository is the tenant-scoped record store backed by MongoDB. The
// partial unique index on (law_firm, email) is the source of truth for the
// per-firm email uniqueness constraint.
type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

// clientDoc is the persisted shape of a client. Kept separate from the domain
// struct so the _id can be a real ObjectID.
type clientDoc struct {
	ID                 primitive.ObjectID      `bson:"_id,omitempty"`
	LawFirmID          string                  `bson:"law_firm"`
	FirstName          string                  `bson:"first_name"`
	LastName           string                  `bson:"last_name"`
	CompanyName        string                  `bson:"company_name,omitempty"`
	RegistrationNumber string                  `bson:"registration_number,omitempty"`
	IDNumber           string                  `bson:"id_number,omitempty"`
	PhoneNumber        string                  `bson:"phone_number"`
	Email              string                  `bson:"email,omitempty"`
	ClientType         string                  `bson:"client_type"`
	Status             string                  `bson:"status"`
	Address            domain.Address          `bson:"address,omitempty"`
	DateOfBirth        *time.Time              `bson:"date_of_birth,omitempty"`
	PreferredDeptID    string                  `bson:"preferred_department,omitempty"`
	Notes              string                  `bson:"notes,omitempty"`
	EmergencyContact   domain.EmergencyContact `bson:"emergency_contact,omitempty"`
	Tags               []string                `bson:"tags,omitempty"`
	ProfileImage       string                  `bson:"profile_image,omitempty"`
	Documents          []domain.Document       `bson:"documents,omitempty"`
	CaseStats          domain.CaseStats        `bson:"case_stats"`
	CreatedBy          string                  `bson:"created_by,omitempty"`
	UpdatedBy          string                  `bson:"updated_by,omitempty"`
	CreatedAt          time.Time               `bson:"created_at"`
	UpdatedAt          time.Time               `bson:"updated_at"`
}

func toDoc(c *domain.Client) *clientDoc {
	return &clientDoc{
		LawFirmID:          c.LawFirmID,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		CompanyName:        c.CompanyName,
		RegistrationNumber: c.RegistrationNumber,
		IDNumber:           c.IDNumber,
		PhoneNumber:        c.PhoneNumber,
		Email:              c.Email,
		ClientType:         string(c.ClientType),
		Status:             string(c.Status),
		Address:            c.Address,
		DateOfBirth:        c.DateOfBirth,
		PreferredDeptID:    c.PreferredDeptID,
		Notes:              c.Notes,
		EmergencyContact:   c.EmergencyContact,
		Tags:               c.Tags,
		ProfileImage:       c.ProfileImage,
		Documents:          c.Documents,
		CaseStats:          c.CaseStats,
		CreatedBy:          c.CreatedBy,
		UpdatedBy:          c.UpdatedBy,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (d *clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID:                 d.ID.Hex(),
		LawFirmID:          d.LawFirmID,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		CompanyName:        d.CompanyName,
		RegistrationNumber: d.RegistrationNumber,
		IDNumber:           d.IDNumber,
		PhoneNumber:        d.PhoneNumber,
		Email:              d.Email,
		ClientType:         domain.ClientType(d.ClientType),
		Status:             domain.ClientStatus(d.Status),
		Address:            d.Address,
		DateOfBirth:        d.DateOfBirth,
		PreferredDeptID:    d.PreferredDeptID,
		Notes:              d.Notes,
		EmergencyContact:   d.EmergencyContact,
		Tags:               d.Tags,
		ProfileImage:       d.ProfileImage,
		Documents:          d.Documents,
		CaseStats:          d.CaseStats,
		CreatedBy:          d.CreatedBy,
		UpdatedBy:          d.UpdatedBy,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// Insert persists a new client and returns it with the generated id.
func (r *ClientRepository) Insert(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(c)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	created := *c
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// FindByID retrieves a client by id. No firm filter is applied here; callers
// must compare the record's law firm against the caller's before use.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidClientID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// FindByIDs retrieves the given clients scoped to lawFirmID. Malformed ids and
// ids belonging to other firms are silently dropped.
func (r *ClientRepository) FindByIDs(ctx context.Context, lawFirmID string, ids []string) ([]*domain.Client, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{
		"_id":      bson.M{"$in": oids},
		"law_firm": lawFirmID,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeAll(ctx, cur)
}

// List returns a page of clients matching filter plus the total count of all
// matches. A Limit of zero or less disables pagination.
func (r *ClientRepository) List(ctx context.Context, filter ports.ListClientsFilter) ([]*domain.Client, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildListQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sortSpec(filter))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func buildListQuery(filter ports.ListClientsFilter) bson.M {
	query := bson.M{"law_firm": filter.LawFirmID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ClientType != "" {
		query["client_type"] = filter.ClientType
	}
	if filter.DepartmentID != "" {
		query["preferred_department"] = filter.DepartmentID
	}
	if filter.HasEmail {
		query["email"] = bson.M{"$exists": true, "$ne": ""}
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"email": re},
			bson.M{"phone_number": re},
			bson.M{"company_name": re},
			bson.M{"id_number": re},
		}
	}
	return query
}

func sortSpec(filter ports.ListClientsFilter) bson.D {
	dir := -1
	if filter.SortAsc {
		dir = 1
	}
	if filter.SortBy == "name" {
		return bson.D{{Key: "first_name", Value: dir}, {Key: "last_name", Value: dir}}
	}
	field := filter.SortBy
	if field == "" {
		field = "created_at"
	}
	return bson.D{{Key: field, Value: dir}}
}

// UpdateByID applies a partial update and returns the updated record.
func (r *ClientRepository) UpdateByID(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidClientID
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.CompanyName != nil {
		set["company_name"] = *patch.CompanyName
	}
	if patch.RegistrationNumber != nil {
		set["registration_number"] = *patch.RegistrationNumber
	}
	if patch.IDNumber != nil {
		set["id_number"] = *patch.IDNumber
	}
	if patch.PhoneNumber != nil {
		set["phone_number"] = *patch.PhoneNumber
	}
	if patch.Email != nil {
		// A blank email is never stored; clearing removes the field so the
		// partial unique index ignores the record.
		if *patch.Email == "" {
			unset["email"] = ""
		} else {
			set["email"] = *patch.Email
		}
	}
	if patch.ClientType != nil {
		set["client_type"] = *patch.ClientType
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.DateOfBirth != nil {
		set["date_of_birth"] = *patch.DateOfBirth
	}
	if patch.PreferredDeptID != nil {
		if *patch.PreferredDeptID == "" {
			unset["preferred_department"] = ""
		} else {
			set["preferred_department"] = *patch.PreferredDeptID
		}
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.EmergencyContact != nil {
		set["emergency_contact"] = *patch.EmergencyContact
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.ProfileImage != nil {
		set["profile_image"] = *patch.ProfileImage
	}
	if patch.UpdatedBy != "" {
		set["updated_by"] = patch.UpdatedBy
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// DeleteByID removes a client permanently. No cascading is performed here;
// the service layer owns the case-reference check.
func (r *ClientRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidClientID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// CountByEmail counts a firm's clients holding email, excluding excludeID
// when given. This backs the duplicate fast-path; the unique index remains
// the real guarantee under concurrency.
func (r *ClientRepository) CountByEmail(ctx context.Context, lawFirmID, email, excludeID string) (int64, error) {
	query := bson.M{"law_firm": lawFirmID, "email": email}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			query["_id"] = bson.M{"$ne": oid}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, query)
}

// Stats computes the firm aggregate in a single $facet pipeline.
func (r *ClientRepository) Stats(ctx context.Context, lawFirmID string) (*ports.FirmStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-recentWindow)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"law_firm": lawFirmID}}},
		{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "n"}},
			"by_status": bson.A{
				bson.M{"$group": bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}},
			},
			"by_type": bson.A{
				bson.M{"$group": bson.M{"_id": "$client_type", "n": bson.M{"$sum": 1}}},
			},
			"by_department": bson.A{
				bson.M{"$group": bson.M{
					"_id": bson.M{"$ifNull": bson.A{"$preferred_department", "unassigned"}},
					"n":   bson.M{"$sum": 1},
				}},
				bson.M{"$sort": bson.M{"n": -1}},
			},
			"recent": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": cutoff}}},
				bson.M{"$count": "n"},
			},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	type bucket struct {
		ID string `bson:"_id"`
		N  int64  `bson:"n"`
	}
	var out []struct {
		Total        []bucket `bson:"total"`
		ByStatus     []bucket `bson:"by_status"`
		ByType       []bucket `bson:"by_type"`
		ByDepartment []bucket `bson:"by_department"`
		Recent       []bucket `bson:"recent"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}

	stats := &ports.FirmStats{}
	if len(out) == 0 {
		return stats, nil
	}
	facets := out[0]

	if len(facets.Total) > 0 {
		stats.Total = facets.Total[0].N
	}
	if len(facets.Recent) > 0 {
		stats.RecentClients = facets.Recent[0].N
	}
	for _, b := range facets.ByStatus {
		switch domain.ClientStatus(b.ID) {
		case domain.StatusActive:
			stats.Active = b.N
		case domain.StatusInactive:
			stats.Inactive = b.N
		}
	}
	for _, b := range facets.ByType {
		switch domain.ClientType(b.ID) {
		case domain.TypeIndividual:
			stats.Individual = b.N
		case domain.TypeCorporate:
			stats.Corporate = b.N
		}
	}
	for _, b := range facets.ByDepartment {
		id := b.ID
		if id == "" {
			id = "unassigned"
		}
		stats.ByDepartment = append(stats.ByDepartment, ports.DepartmentCount{DepartmentID: id, Count: b.N})
	}
	return stats, nil
}

// EnsureIndexes creates the collection's indexes. The partial unique index on
// (law_firm, email) only covers documents with a non-empty string email, so
// any number of email-less clients may coexist within a firm.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "law_firm", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"email": bson.M{"$exists": true, "$type": "string", "$gt": ""},
				}),
		},
		{Keys: bson.D{{Key: "law_firm", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "law_firm", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]*domain.Client, error) {
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	clients := make([]*domain.Client, 0, len(docs))
	for i := range docs {
		clients = append(clients, docs[i].toDomain())
	}
	return clients, nil
}
