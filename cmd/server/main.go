package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/vaadbayit/reconciler/internal/api"
	"github.com/vaadbayit/reconciler/internal/ingestion"
	"github.com/vaadbayit/reconciler/internal/matching"
	"github.com/vaadbayit/reconciler/internal/repository"
	"github.com/vaadbayit/reconciler/internal/statement"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "vaadbayit.db"
	}

	threshold := matching.DefaultThreshold
	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			log.Fatalf("Invalid MATCH_THRESHOLD %q", v)
		}
		threshold = parsed
	}

	log.Printf("Initializing database at %s", dbPath)
	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	buildingRepo := repository.NewBuildingRepo(db)
	tenantRepo := repository.NewTenantRepo(db)
	stmtRepo := repository.NewStatementRepo(db)
	mappingRepo := repository.NewMappingRepo(db)
	messageRepo := repository.NewMessageRepo(db)

	// Create services.
	parser := statement.NewParser(statement.DefaultConfig())
	matcher := matching.NewEngine(matching.Config{Threshold: threshold})
	ingestionSvc := ingestion.NewService(parser, matcher, tenantRepo, stmtRepo, mappingRepo)

	// Create router.
	router := api.NewRouter(buildingRepo, tenantRepo, stmtRepo, mappingRepo,
		messageRepo, matcher, ingestionSvc)

	log.Printf("Va'ad Bayit Payment Reconciler")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("API base: http://localhost:%s/api/v1", port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/buildings")
	log.Printf("  POST   /api/v1/buildings/{id}/apartments")
	log.Printf("  POST   /api/v1/tenants")
	log.Printf("  POST   /api/v1/statements/{buildingID}/upload")
	log.Printf("  GET    /api/v1/statements/{statementID}/transactions")
	log.Printf("  POST   /api/v1/transactions/{id}/match/{tenantID}")
	log.Printf("  GET    /api/v1/transactions/{id}/suggestions")
	log.Printf("  GET    /api/v1/payments/{buildingID}/status")
	log.Printf("  GET    /api/v1/payments/{buildingID}/unpaid")
	log.Printf("  POST   /api/v1/messages/{buildingID}/generate-reminders")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
