// Package entities contains the aggregates of the accounting kernel.
// All persisted rows share a common envelope (uid, timestamps, soft-delete
// flag, opaque metadata); tenant-scoped entities additionally carry the
// business name and the owning user.
package entities

import (
	"time"

	"github.com/google/uuid"
)

// Envelope holds the fields every persisted entity shares.
//
// Entity Pattern:
// - uid is generated on creation and never changes
// - updatedAt is monotone, bumped on every mutation
// - soft delete only: rows are flagged, never removed
type Envelope struct {
	uid       uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	isDeleted bool
	metadata  map[string]any
}

// NewEnvelope creates an envelope for a freshly created entity.
func NewEnvelope(metadata map[string]any) Envelope {
	now := time.Now().UTC()
	return Envelope{
		uid:       uuid.New(),
		createdAt: now,
		updatedAt: now,
		metadata:  metadata,
	}
}

// ReconstructEnvelope rebuilds an envelope from stored data.
// Used by repositories to hydrate entities from the database.
func ReconstructEnvelope(uid uuid.UUID, createdAt, updatedAt time.Time, isDeleted bool, metadata map[string]any) Envelope {
	return Envelope{
		uid:       uid,
		createdAt: createdAt,
		updatedAt: updatedAt,
		isDeleted: isDeleted,
		metadata:  metadata,
	}
}

func (e *Envelope) UID() uuid.UUID       { return e.uid }
func (e *Envelope) CreatedAt() time.Time { return e.createdAt }
func (e *Envelope) UpdatedAt() time.Time { return e.updatedAt }
func (e *Envelope) IsDeleted() bool      { return e.isDeleted }

// Metadata returns the opaque key-value map attached to the entity.
func (e *Envelope) Metadata() map[string]any { return e.metadata }

// SetMetadata replaces the metadata map.
func (e *Envelope) SetMetadata(m map[string]any) {
	e.metadata = m
	e.touch()
}

// MarkDeleted flags the entity as soft-deleted.
func (e *Envelope) MarkDeleted() {
	e.isDeleted = true
	e.touch()
}

// touch bumps updatedAt. Every mutating entity method must call it.
func (e *Envelope) touch() {
	e.updatedAt = time.Now().UTC()
}

// Tenancy scopes an entity to a business tenant and an owner within it.
type Tenancy struct {
	businessName string
	userID       uuid.UUID
}

// NewTenancy creates a tenancy scope.
func NewTenancy(businessName string, userID uuid.UUID) Tenancy {
	return Tenancy{businessName: businessName, userID: userID}
}

func (t *Tenancy) BusinessName() string { return t.businessName }
func (t *Tenancy) UserID() uuid.UUID    { return t.userID }

// BelongsTo reports whether the entity is scoped to the given tenant.
func (t *Tenancy) BelongsTo(businessName string) bool {
	return t.businessName == businessName
}
