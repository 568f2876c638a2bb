package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fragments/internal/blobstore"
	"fragments/internal/models"
	"fragments/internal/store"
)

const timeFormat = time.RFC3339Nano

// Backend bundles the two key-value namespaces a fragment lives in.
type Backend struct {
	Metadata store.MetadataStore
	Payload  blobstore.PayloadStore
}

func (b Backend) validate() error {
	if b.Metadata == nil || b.Payload == nil {
		return fmt.Errorf("fragment backend is not configured")
	}
	return nil
}

// Input holds construction values. Empty strings mean "absent". Size is a
// json.Number so that decoded records can carry non-integer values, which
// are rejected.
type Input struct {
	ID      string
	OwnerID string
	Created string
	Updated string
	Type    string
	Size    json.Number
}

// Fragment is one stored unit of data owned by a single owner.
type Fragment struct {
	ID      string
	OwnerID string
	Created time.Time
	Updated time.Time
	// Type is the Content-Type the fragment was created with, parameters included.
	Type string
	Size int64

	mediaType models.MediaType
	backend   Backend
}

var now = func() time.Time { return time.Now().UTC() }

// New validates in and builds a fragment bound to backend. Nothing is persisted.
func New(in Input, backend Backend) (*Fragment, error) {
	if err := backend.validate(); err != nil {
		return nil, err
	}
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return nil, models.NewValidationError("ownerId", "is required")
	}
	rawType := strings.TrimSpace(in.Type)
	if rawType == "" {
		return nil, models.NewValidationError("type", "is required")
	}
	mediaType, err := models.ParseMediaType(rawType)
	if err != nil {
		return nil, models.NewValidationError("type", "%v", err)
	}
	size, err := parseSize(in.Size)
	if err != nil {
		return nil, err
	}

	ts := now()
	created, err := parseTime("created", in.Created, ts)
	if err != nil {
		return nil, err
	}
	updated, err := parseTime("updated", in.Updated, ts)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}

	return &Fragment{
		ID:        id,
		OwnerID:   ownerID,
		Created:   created,
		Updated:   updated,
		Type:      rawType,
		Size:      size,
		mediaType: mediaType,
		backend:   backend,
	}, nil
}

func parseSize(raw json.Number) (int64, error) {
	value := strings.TrimSpace(raw.String())
	if value == "" {
		return 0, nil
	}
	size, err := raw.Int64()
	if err != nil {
		// Integral floats such as 1.0 or 1e3 are still integers.
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return 0, models.NewValidationError("size", "must be an integer, got %s", value)
		}
		size = int64(f)
	}
	if size < 0 {
		return 0, models.NewValidationError("size", "must be >= 0, got %d", size)
	}
	return size, nil
}

func parseTime(field, raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, models.NewValidationError(field, "invalid timestamp %q", raw)
	}
	return t.UTC(), nil
}

// FromRecord rebuilds a fragment from its serialized metadata.
func FromRecord(data []byte, backend Backend) (*Fragment, error) {
	rec, err := models.DecodeRecord(data)
	if err != nil {
		return nil, models.NewValidationError("record", "invalid fragment record: %v", err)
	}
	return New(Input{
		ID:      rec.ID,
		OwnerID: rec.OwnerID,
		Created: rec.Created,
		Updated: rec.Updated,
		Type:    rec.Type,
		Size:    rec.Size,
	}, backend)
}

// ByID loads one fragment's metadata for an owner.
func ByID(ctx context.Context, backend Backend, ownerID, id string) (*Fragment, error) {
	if err := backend.validate(); err != nil {
		return nil, err
	}
	data, err := backend.Metadata.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &models.NotFoundError{OwnerID: ownerID, ID: id}
	}
	frag, err := FromRecord(data, backend)
	if err != nil {
		return nil, err
	}
	if frag.OwnerID != ownerID {
		return nil, &models.NotFoundError{OwnerID: ownerID, ID: id}
	}
	return frag, nil
}

// ByUser lists the ids of every fragment an owner has.
func ByUser(ctx context.Context, backend Backend, ownerID string) ([]string, error) {
	frags, err := ByUserExpanded(ctx, backend, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(frags))
	for _, frag := range frags {
		ids = append(ids, frag.ID)
	}
	return ids, nil
}

// ByUserExpanded lists every fragment an owner has with full metadata.
func ByUserExpanded(ctx context.Context, backend Backend, ownerID string) ([]*Fragment, error) {
	if err := backend.validate(); err != nil {
		return nil, err
	}
	records, err := backend.Metadata.Query(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*Fragment, 0, len(records))
	for _, data := range records {
		frag, err := FromRecord(data, backend)
		if err != nil {
			return nil, err
		}
		out = append(out, frag)
	}
	return out, nil
}

// Delete removes a fragment's metadata and payload. A missing fragment is a
// NotFoundError.
func Delete(ctx context.Context, backend Backend, ownerID, id string) error {
	if err := backend.validate(); err != nil {
		return err
	}
	data, err := backend.Metadata.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if data == nil {
		return &models.NotFoundError{OwnerID: ownerID, ID: id}
	}
	if err := backend.Metadata.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	return backend.Payload.Delete(ctx, ownerID, id)
}

// Save refreshes Updated and upserts the metadata record. Updated always
// moves strictly forward.
func (f *Fragment) Save(ctx context.Context) error {
	ts := now()
	if !ts.After(f.Updated) {
		ts = f.Updated.Add(time.Microsecond)
	}
	f.Updated = ts

	data, err := json.Marshal(f.Record())
	if err != nil {
		return err
	}
	return f.backend.Metadata.Put(ctx, f.OwnerID, f.ID, data)
}

// GetData returns the payload. A payload that was never written reports
// found=false.
func (f *Fragment) GetData(ctx context.Context) ([]byte, bool, error) {
	return f.backend.Payload.Get(ctx, f.OwnerID, f.ID)
}

// SetData records the payload size, saves metadata, then writes the payload.
// The two writes are not atomic: if the payload write fails the saved
// metadata is left in place.
func (f *Fragment) SetData(ctx context.Context, data []byte) error {
	if data == nil {
		return models.NewValidationError("data", "is required")
	}
	f.Size = int64(len(data))
	if err := f.Save(ctx); err != nil {
		return err
	}
	return f.backend.Payload.Put(ctx, f.OwnerID, f.ID, data)
}

// MediaType returns the stored base type as an enumeration value.
func (f *Fragment) MediaType() models.MediaType { return f.mediaType }

// MimeType returns the stored type without parameters.
func (f *Fragment) MimeType() string { return f.mediaType.String() }

func (f *Fragment) IsText() bool        { return f.mediaType.IsText() }
func (f *Fragment) IsImage() bool       { return f.mediaType.IsImage() }
func (f *Fragment) IsApplication() bool { return f.mediaType.IsApplication() }
func (f *Fragment) Subtype() string     { return f.mediaType.Subtype() }

// Formats lists the types this fragment can be served as.
func (f *Fragment) Formats() []string {
	return models.FormatsForSubtype(f.Subtype())
}

// Record returns the serialized metadata shape.
func (f *Fragment) Record() models.Record {
	return models.Record{
		ID:      f.ID,
		OwnerID: f.OwnerID,
		Created: f.Created.Format(timeFormat),
		Updated: f.Updated.Format(timeFormat),
		Type:    f.Type,
		Size:    json.Number(strconv.FormatInt(f.Size, 10)),
	}
}

func (f *Fragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Record())
}
