// Package main seeds a development database with sample CRM data.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/harborcrm/harbor/internal/config"
	"github.com/harborcrm/harbor/internal/db"
	"github.com/harborcrm/harbor/internal/models"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	dbURL := flag.String("db", "", "Database URL (or set DATABASE_URL env var)")
	flag.Parse()

	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()

	url := *dbURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		logger.Fatal().Msg("database URL required: use -db flag or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.New(ctx, db.DefaultConfig(url), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := seed(ctx, database, logger); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	logger.Info().Msg("seeding complete")
}

func seed(ctx context.Context, database *db.DB, logger zerolog.Logger) error {
	// The same upsert the identity resolver uses, so seeding and live
	// traffic converge on one organization.
	org, err := database.UpsertDefaultOrg(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("org_id", org.ID.String()).Msg("default organization ready")

	admin, err := database.UpsertUserByEmail(ctx,
		models.NewUser(org.ID, config.FallbackEmail, "admin", models.UserRoleSuperAdmin))
	if err != nil {
		return err
	}

	alice, err := database.UpsertUserByEmail(ctx,
		models.NewUser(org.ID, "alice@example.com", "Alice", models.UserRoleStandard))
	if err != nil {
		return err
	}

	carol := models.NewContact(org.ID, alice.ID, "Carol Client")
	carol.Email = "carol@client.example"
	carol.Company = "Client Co"
	carol.Title = "CTO"
	if err := database.CreateContact(ctx, carol); err != nil {
		return err
	}

	dan := models.NewContact(org.ID, admin.ID, "Dan Prospect")
	dan.Email = "dan@prospect.example"
	dan.Company = "Prospect Inc"
	if err := database.CreateContact(ctx, dan); err != nil {
		return err
	}

	deal := models.NewDeal(org.ID, carol.ID, alice.ID, "Annual license renewal", 250000, "USD")
	if err := database.CreateDeal(ctx, deal); err != nil {
		return err
	}
	if err := database.UpdateDealStage(ctx, org.ID, deal.ID, models.DealStageQualified); err != nil {
		return err
	}
	decision := models.NewDecisionLog(org.ID, alice.ID, models.DecisionTypeDealStage,
		"deal Annual license renewal moved from lead to qualified").
		WithDetails(map[string]any{
			"deal_id": deal.ID.String(),
			"from":    string(models.DealStageLead),
			"to":      string(models.DealStageQualified),
		})
	if err := database.CreateDecisionLog(ctx, decision); err != nil {
		return err
	}

	invoice := models.NewInvoice(org.ID, carol.ID, "INV-0001", "USD", 10000, 825)
	invoice.DealID = &deal.ID
	if err := database.CreateInvoice(ctx, invoice); err != nil {
		return err
	}
	if err := database.MarkInvoiceSent(ctx, org.ID, invoice.ID); err != nil {
		return err
	}
	if err := database.MarkInvoicePaid(ctx, org.ID, invoice.ID); err != nil {
		return err
	}
	paid := models.NewDecisionLog(org.ID, admin.ID, models.DecisionTypeInvoicePaid,
		"invoice INV-0001 marked paid").
		WithDetails(map[string]any{
			"invoice_id":  invoice.ID.String(),
			"total_cents": invoice.TotalCents,
			"currency":    invoice.Currency,
		})
	if err := database.CreateDecisionLog(ctx, paid); err != nil {
		return err
	}

	token := models.NewPortalToken(org.ID, carol.ID, models.DefaultPortalTokenTTL)
	if err := database.CreatePortalToken(ctx, token); err != nil {
		return err
	}
	logger.Info().Str("portal_token", token.Token).Msg("portal token for Carol Client")

	for _, entry := range []*models.AuditLog{
		models.NewAuditLog(org.ID, "contact.create").WithActor(alice.ID).WithEntity("contact", carol.ID),
		models.NewAuditLog(org.ID, "deal.create").WithActor(alice.ID).WithEntity("deal", deal.ID),
		models.NewAuditLog(org.ID, "invoice.pay").WithActor(admin.ID).WithEntity("invoice", invoice.ID),
	} {
		if err := database.CreateAuditLog(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}
