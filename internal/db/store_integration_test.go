//go:build integration

package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *DB

func TestMain(m *testing.M) {
	if !dockerAvailable() {
		fmt.Println("Docker is not available, skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("harbor_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pgContainer.Terminate(ctx)
		log.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.New(zerolog.NewConsoleWriter())
	cfg := DefaultConfig(connStr)
	cfg.MaxConns = 10
	cfg.MinConns = 1

	testDB, err = New(ctx, cfg, logger)
	if err != nil {
		pgContainer.Terminate(ctx)
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := testDB.Migrate(ctx); err != nil {
		testDB.Close()
		pgContainer.Terminate(ctx)
		log.Fatalf("failed to run migrations: %v", err)
	}

	code := m.Run()

	testDB.Close()
	pgContainer.Terminate(ctx)

	os.Exit(code)
}

// dockerAvailable returns true if a Docker daemon is reachable.
func dockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB returns the shared test database after cleaning all tables.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	cleanTables(t, testDB)
	return testDB
}

// cleanTables truncates all user tables between tests for isolation.
func cleanTables(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, `
		DO $$ DECLARE r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename != 'schema_migrations') LOOP
				EXECUTE 'TRUNCATE TABLE ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`)
	require.NoError(t, err)
}

// createTestUser creates and persists a test user in the given org.
func createTestUser(t *testing.T, db *DB, orgID uuid.UUID, email string) *models.User {
	t.Helper()
	user, err := db.UpsertUserByEmail(context.Background(),
		models.NewUser(orgID, email, models.EmailLocalPart(email), models.UserRoleStandard))
	require.NoError(t, err)
	return user
}

func TestUpsertDefaultOrg(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOrgSlug, org.Slug)
	assert.Equal(t, models.DefaultOrgName, org.Name)

	again, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	assert.Equal(t, org.ID, again.ID, "repeated resolution must return the same organization")
}

func TestUpsertDefaultOrgConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	const callers = 16
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			org, err := db.UpsertDefaultOrg(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = org.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "all concurrent callers must observe the same organization")
	}

	var count int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM organizations WHERE slug = $1", models.DefaultOrgSlug).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "exactly one default organization row must exist")
}

func TestUpsertUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)

	created, err := db.UpsertUserByEmail(ctx,
		models.NewUser(org.ID, "alice@example.com", "Alice", models.UserRoleSuperAdmin))
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, models.UserRoleSuperAdmin, created.Role)

	// Second resolution with a different name and role: name updates in
	// place, role and org stay as created.
	updated, err := db.UpsertUserByEmail(ctx,
		models.NewUser(org.ID, "alice@example.com", "Alice Liddell", models.UserRoleStandard))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "upsert must not create a duplicate user")
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, models.UserRoleSuperAdmin, updated.Role, "role must not change on re-resolution")
	assert.Equal(t, org.ID, updated.OrgID)

	var count int
	err = db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", "alice@example.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertUserByEmailConcurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)

	const callers = 16
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := db.UpsertUserByEmail(ctx,
				models.NewUser(org.ID, "race@example.com", "Racer", models.UserRoleStandard))
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = user.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int
	err = db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", "race@example.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateAndListAuditLogs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	user := createTestUser(t, db, org.ID, "auditor@example.com")
	entityID := uuid.New()

	entry := models.NewAuditLog(org.ID, "contact.create").
		WithActor(user.ID).
		WithEntity("contact", entityID).
		WithDetails(map[string]any{"name": "Alice"})
	require.NoError(t, db.CreateAuditLog(ctx, entry))

	// A minimal entry: optional fields absent.
	require.NoError(t, db.CreateAuditLog(ctx, models.NewAuditLog(org.ID, "org.bootstrap")))

	logs, err := db.ListAuditLogs(ctx, org.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first.
	assert.Equal(t, "org.bootstrap", logs[0].Action)
	assert.Nil(t, logs[0].ActorID)
	assert.Empty(t, logs[0].EntityType)
	assert.Nil(t, logs[0].Details)

	assert.Equal(t, "contact.create", logs[1].Action)
	require.NotNil(t, logs[1].ActorID)
	assert.Equal(t, user.ID, *logs[1].ActorID)
	assert.Equal(t, "contact", logs[1].EntityType)
	assert.Equal(t, "Alice", logs[1].Details["name"])
}

func TestListDecisionLogsCapAndOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	user := createTestUser(t, db, org.ID, "decider@example.com")

	// 60 entries sharing coarse timestamps: the seq tiebreak must keep the
	// listing stable and newest-first.
	for i := 0; i < 60; i++ {
		entry := models.NewDecisionLog(org.ID, user.ID, models.DecisionTypeDealStage,
			fmt.Sprintf("decision %d", i))
		require.NoError(t, db.CreateDecisionLog(ctx, entry))
	}

	logs, err := db.ListDecisionLogs(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, logs, models.DecisionLogListLimit, "listing must cap at 50 entries")

	assert.Equal(t, "decision 59", logs[0].Summary, "newest entry must come first")
	assert.Equal(t, "decision 10", logs[len(logs)-1].Summary)
	for i := 1; i < len(logs); i++ {
		assert.Greater(t, logs[i-1].Seq, logs[i].Seq, "entries must be in descending insertion order")
	}

	assert.Equal(t, user.ID, logs[0].Actor.ID)
	assert.Equal(t, "decider@example.com", logs[0].Actor.Email)
}

func TestListDecisionLogsEmpty(t *testing.T) {
	db := setupTestDB(t)

	org, err := db.UpsertDefaultOrg(context.Background())
	require.NoError(t, err)

	logs, err := db.ListDecisionLogs(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Empty(t, logs, "an empty trail is a normal outcome, not an error")
}

func TestContactCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	user := createTestUser(t, db, org.ID, "owner@example.com")

	contact := models.NewContact(org.ID, user.ID, "Carol Client")
	contact.Email = "carol@client.example"
	contact.Company = "Client Co"
	require.NoError(t, db.CreateContact(ctx, contact))

	got, err := db.GetContactByID(ctx, org.ID, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol Client", got.Name)
	assert.Equal(t, "Client Co", got.Company)

	got.Phone = "+1-555-0100"
	require.NoError(t, db.UpdateContact(ctx, got))

	listed, err := db.ListContacts(ctx, org.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "+1-555-0100", listed[0].Phone)

	require.NoError(t, db.DeleteContact(ctx, org.ID, contact.ID))
	_, err = db.GetContactByID(ctx, org.ID, contact.ID)
	assert.Error(t, err)
}

func TestDealStageTransitions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	user := createTestUser(t, db, org.ID, "seller@example.com")

	contact := models.NewContact(org.ID, user.ID, "Buyer")
	require.NoError(t, db.CreateContact(ctx, contact))

	deal := models.NewDeal(org.ID, contact.ID, user.ID, "Annual license", 250000, "USD")
	require.NoError(t, db.CreateDeal(ctx, deal))
	assert.Equal(t, models.DealStageLead, deal.Stage)

	require.NoError(t, db.UpdateDealStage(ctx, org.ID, deal.ID, models.DealStageWon))

	got, err := db.GetDealByID(ctx, org.ID, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStageWon, got.Stage)
	assert.True(t, got.IsClosed())
}

func TestInvoiceLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	user := createTestUser(t, db, org.ID, "billing@example.com")

	contact := models.NewContact(org.ID, user.ID, "Payer")
	require.NoError(t, db.CreateContact(ctx, contact))

	invoice := models.NewInvoice(org.ID, contact.ID, "INV-0001", "USD", 10000, 825)
	require.NoError(t, db.CreateInvoice(ctx, invoice))

	require.NoError(t, db.MarkInvoiceSent(ctx, org.ID, invoice.ID))
	// Sending twice is rejected: no longer in draft.
	assert.Error(t, db.MarkInvoiceSent(ctx, org.ID, invoice.ID))

	require.NoError(t, db.MarkInvoicePaid(ctx, org.ID, invoice.ID))
	got, err := db.GetInvoiceByID(ctx, org.ID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)

	// Paying an already paid invoice is rejected.
	assert.Error(t, db.MarkInvoicePaid(ctx, org.ID, invoice.ID))
}

func TestPortalTokenValidity(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	org, err := db.UpsertDefaultOrg(ctx)
	require.NoError(t, err)
	user := createTestUser(t, db, org.ID, "portal@example.com")

	contact := models.NewContact(org.ID, user.ID, "Portal Contact")
	require.NoError(t, db.CreateContact(ctx, contact))

	valid := models.NewPortalToken(org.ID, contact.ID, time.Hour)
	require.NoError(t, db.CreatePortalToken(ctx, valid))

	got, err := db.GetValidPortalToken(ctx, valid.Token)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, got.ContactID)

	expired := models.NewPortalToken(org.ID, contact.ID, -time.Minute)
	require.NoError(t, db.CreatePortalToken(ctx, expired))
	_, err = db.GetValidPortalToken(ctx, expired.Token)
	assert.Error(t, err, "expired tokens must not resolve")

	_, err = db.GetValidPortalToken(ctx, "unknown-token")
	assert.Error(t, err)
}
