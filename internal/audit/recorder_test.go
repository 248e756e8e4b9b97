package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	logs []*models.AuditLog
	err  error
}

func (m *mockStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

func TestRecordFullEntry(t *testing.T) {
	store := &mockStore{}
	recorder := NewRecorder(store, zerolog.Nop())

	orgID := uuid.New()
	actorID := uuid.New()
	entityID := uuid.New()

	log := recorder.Record(context.Background(), Entry{
		OrgID:      orgID,
		ActorID:    &actorID,
		Action:     "deal.stage_change",
		EntityType: "deal",
		EntityID:   &entityID,
		Details:    map[string]any{"stage": "won"},
	})

	require.NotNil(t, log)
	require.Len(t, store.logs, 1)
	assert.Equal(t, orgID, log.OrgID)
	require.NotNil(t, log.ActorID)
	assert.Equal(t, actorID, *log.ActorID)
	assert.Equal(t, "deal.stage_change", log.Action)
	assert.Equal(t, "deal", log.EntityType)
	assert.Equal(t, "won", log.Details["stage"])
}

func TestRecordMinimalEntry(t *testing.T) {
	store := &mockStore{}
	recorder := NewRecorder(store, zerolog.Nop())

	log := recorder.Record(context.Background(), Entry{
		OrgID:  uuid.New(),
		Action: "org.bootstrap",
	})

	require.NotNil(t, log)
	assert.Nil(t, log.ActorID)
	assert.Empty(t, log.EntityType)
	assert.Nil(t, log.EntityID)
	assert.Nil(t, log.Details)
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := &mockStore{err: errors.New("connection reset")}
	recorder := NewRecorder(store, zerolog.Nop())

	log := recorder.Record(context.Background(), Entry{
		OrgID:  uuid.New(),
		Action: "contact.create",
	})

	assert.Nil(t, log, "a failed audit write must not surface an error")
	assert.Empty(t, store.logs)
}

func TestRecordEntityRequiresBothFields(t *testing.T) {
	store := &mockStore{}
	recorder := NewRecorder(store, zerolog.Nop())

	// Entity type without an ID is dropped rather than half-recorded.
	log := recorder.Record(context.Background(), Entry{
		OrgID:      uuid.New(),
		Action:     "invoice.send",
		EntityType: "invoice",
	})

	require.NotNil(t, log)
	assert.Empty(t, log.EntityType)
	assert.Nil(t, log.EntityID)
}
