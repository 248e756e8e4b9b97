package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDealStore struct {
	contacts     map[uuid.UUID]*models.Contact
	deals        map[uuid.UUID]*models.Deal
	decisions    []*models.DecisionLog
	decisionsErr error
}

func newMockDealStore() *mockDealStore {
	return &mockDealStore{
		contacts: make(map[uuid.UUID]*models.Contact),
		deals:    make(map[uuid.UUID]*models.Deal),
	}
}

func (m *mockDealStore) CreateDeal(ctx context.Context, deal *models.Deal) error {
	m.deals[deal.ID] = deal
	return nil
}

func (m *mockDealStore) GetDealByID(ctx context.Context, orgID, id uuid.UUID) (*models.Deal, error) {
	deal, ok := m.deals[id]
	if !ok || deal.OrgID != orgID {
		return nil, fmt.Errorf("get deal: %w", db.ErrNotFound)
	}
	return deal, nil
}

func (m *mockDealStore) GetContactByID(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error) {
	contact, ok := m.contacts[id]
	if !ok || contact.OrgID != orgID {
		return nil, fmt.Errorf("get contact: %w", db.ErrNotFound)
	}
	return contact, nil
}

func (m *mockDealStore) ListDeals(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, deal := range m.deals {
		if deal.OrgID == orgID {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (m *mockDealStore) UpdateDeal(ctx context.Context, deal *models.Deal) error {
	if _, ok := m.deals[deal.ID]; !ok {
		return fmt.Errorf("deal %w", db.ErrNotFound)
	}
	m.deals[deal.ID] = deal
	return nil
}

func (m *mockDealStore) UpdateDealStage(ctx context.Context, orgID, id uuid.UUID, stage models.DealStage) error {
	deal, ok := m.deals[id]
	if !ok || deal.OrgID != orgID {
		return fmt.Errorf("deal %w", db.ErrNotFound)
	}
	deal.Stage = stage
	return nil
}

func (m *mockDealStore) DeleteDeal(ctx context.Context, orgID, id uuid.UUID) error {
	if _, ok := m.deals[id]; !ok {
		return fmt.Errorf("deal %w", db.ErrNotFound)
	}
	delete(m.deals, id)
	return nil
}

func (m *mockDealStore) CreateDecisionLog(ctx context.Context, log *models.DecisionLog) error {
	if m.decisionsErr != nil {
		return m.decisionsErr
	}
	m.decisions = append(m.decisions, log)
	return nil
}

func newDealsRouter(store *mockDealStore) (*gin.Engine, *memAuditStore, *models.Organization, *models.User) {
	org, user, inject := testIdentity()
	recorder, auditStore := testRecorder()
	handler := NewDealsHandler(store, recorder, zerolog.Nop())
	router := newTestRouter(inject, handler.RegisterRoutes)
	return router, auditStore, org, user
}

func TestDealsCreate(t *testing.T) {
	store := newMockDealStore()
	router, auditStore, org, user := newDealsRouter(store)

	contact := models.NewContact(org.ID, user.ID, "Buyer")
	store.contacts[contact.ID] = contact

	w := doJSON(t, router, http.MethodPost, "/api/v1/deals", gin.H{
		"contact_id":   contact.ID.String(),
		"title":        "Annual license",
		"amount_cents": 250000,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, string(models.DealStageLead), body["stage"], "new deals start in the lead stage")
	assert.Equal(t, "USD", body["currency"], "currency defaults to USD")
	require.Len(t, store.deals, 1)
	require.Len(t, auditStore.logs, 1)
	assert.Equal(t, "deal.create", auditStore.logs[0].Action)
}

func TestDealsCreateUnknownContact(t *testing.T) {
	store := newMockDealStore()
	router, _, _, _ := newDealsRouter(store)

	w := doJSON(t, router, http.MethodPost, "/api/v1/deals", gin.H{
		"contact_id": uuid.NewString(),
		"title":      "Annual license",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, store.deals)
}

func TestDealsChangeStageRecordsDecision(t *testing.T) {
	store := newMockDealStore()
	router, auditStore, org, user := newDealsRouter(store)

	deal := models.NewDeal(org.ID, uuid.New(), user.ID, "Annual license", 250000, "USD")
	store.deals[deal.ID] = deal

	w := doJSON(t, router, http.MethodPost, "/api/v1/deals/"+deal.ID.String()+"/stage", gin.H{
		"stage":  "won",
		"reason": "signed this morning",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DealStageWon, store.deals[deal.ID].Stage)

	require.Len(t, store.decisions, 1)
	decision := store.decisions[0]
	assert.Equal(t, models.DecisionTypeDealStage, decision.DecisionType)
	assert.Equal(t, user.ID, decision.UserID)
	assert.Equal(t, "lead", decision.Details["from"])
	assert.Equal(t, "won", decision.Details["to"])
	assert.Equal(t, "signed this morning", decision.Details["reason"])

	require.Len(t, auditStore.logs, 1)
	assert.Equal(t, "deal.stage_change", auditStore.logs[0].Action)
}

func TestDealsChangeStageInvalidStage(t *testing.T) {
	store := newMockDealStore()
	router, _, org, user := newDealsRouter(store)

	deal := models.NewDeal(org.ID, uuid.New(), user.ID, "Annual license", 250000, "USD")
	store.deals[deal.ID] = deal

	w := doJSON(t, router, http.MethodPost, "/api/v1/deals/"+deal.ID.String()+"/stage", gin.H{
		"stage": "negotiating",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.DealStageLead, store.deals[deal.ID].Stage)
	assert.Empty(t, store.decisions)
}

func TestDealsChangeStageSurvivesDecisionLogFailure(t *testing.T) {
	store := newMockDealStore()
	store.decisionsErr = errors.New("connection reset")
	router, _, org, user := newDealsRouter(store)

	deal := models.NewDeal(org.ID, uuid.New(), user.ID, "Annual license", 250000, "USD")
	store.deals[deal.ID] = deal

	w := doJSON(t, router, http.MethodPost, "/api/v1/deals/"+deal.ID.String()+"/stage", gin.H{
		"stage": "qualified",
	})

	assert.Equal(t, http.StatusOK, w.Code, "a lost decision entry must not fail the stage change")
	assert.Equal(t, models.DealStageQualified, store.deals[deal.ID].Stage)
}

func TestDealsUpdate(t *testing.T) {
	store := newMockDealStore()
	router, _, org, user := newDealsRouter(store)

	deal := models.NewDeal(org.ID, uuid.New(), user.ID, "Annual license", 250000, "USD")
	store.deals[deal.ID] = deal

	w := doJSON(t, router, http.MethodPut, "/api/v1/deals/"+deal.ID.String(), gin.H{
		"amount_cents": 300000,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(300000), store.deals[deal.ID].AmountCents)
	assert.Equal(t, "Annual license", store.deals[deal.ID].Title)
}

func TestDealsDeleteNotFound(t *testing.T) {
	store := newMockDealStore()
	router, _, _, _ := newDealsRouter(store)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/deals/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
