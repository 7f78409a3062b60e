package main

import (
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/kinnovative-other-websites/transport-field-check/internal/adapters/repositories"
	"github.com/kinnovative-other-websites/transport-field-check/internal/config"
	"github.com/kinnovative-other-websites/transport-field-check/internal/platform/db"
)

// dbtool creates the schema and optionally seeds student rosters from a
// CSV export. Usage:
//
//	dbtool init
//	dbtool seed <roster.csv>
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if len(os.Args) < 2 {
		log.Fatal("usage: dbtool <init|seed> [roster.csv]")
	}

	switch os.Args[1] {
	case "init":
		if err := repositories.InitSchema(pool); err != nil {
			log.Fatal(err)
		}
		log.Println("Schema ready")
	case "seed":
		if len(os.Args) < 3 {
			log.Fatal("usage: dbtool seed <roster.csv>")
		}
		report, err := repositories.SeedStudentsFromCSV(pool, os.Args[2])
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Seed complete inserted=%d updated=%d total=%d",
			report.Inserted, report.Updated, report.Total)
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
}
