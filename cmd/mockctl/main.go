// Command mockctl runs maintenance tasks against the mock test database:
// provisioning the administrator, importing a mock from YAML and exporting
// results to a spreadsheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mind-engage/mindengage-mock/internal/auth"
	"github.com/mind-engage/mindengage-mock/internal/config"
	"github.com/mind-engage/mindengage-mock/internal/db"
	"github.com/mind-engage/mindengage-mock/internal/importer"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/report"
	"github.com/mind-engage/mindengage-mock/internal/storage"
	syncx "github.com/mind-engage/mindengage-mock/internal/sync"
)

const usage = `usage: mockctl <command> [flags]

commands:
  provision-admin                     create the configured administrator if missing
  import <mock.yaml>                  create a mock with its sections from a YAML file
  export-results [-mock N] <out.xlsx> write results (all mocks, or one) to a spreadsheet
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cfg := config.FromEnv()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "provision-admin":
		err = provisionAdmin(cfg)
	case "import":
		err = importMock(cfg, args)
	case "export-results":
		err = exportResults(cfg, args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func open(cfg config.Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN, db.Options{Retries: cfg.DBConnectRetries})
}

func newService(cfg config.Config, dbh *sqlx.DB) (*mock.Service, error) {
	bs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.PublicURL+"/uploads")
	if err != nil {
		return nil, err
	}
	return mock.NewService(mock.NewSQLStore(dbh), bs, mock.WithAuditor(syncx.NewEventRepo(dbh))), nil
}

func provisionAdmin(cfg config.Config) error {
	dbh, err := open(cfg)
	if err != nil {
		return err
	}
	defer dbh.Close()
	created, err := auth.NewUserStore(dbh).EnsureAdmin(context.Background(), cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Printf("created administrator %q", cfg.AdminUser)
	} else {
		log.Printf("administrator %q already exists", cfg.AdminUser)
	}
	return nil
}

func importMock(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one YAML file")
	}
	dbh, err := open(cfg)
	if err != nil {
		return err
	}
	defer dbh.Close()
	svc, err := newService(cfg, dbh)
	if err != nil {
		return err
	}
	m, err := importer.ImportFile(context.Background(), svc, fs.Arg(0))
	if err != nil {
		return err
	}
	log.Printf("imported mock %d %q", m.ID, m.Title)
	return nil
}

func exportResults(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("export-results", flag.ExitOnError)
	mockID := fs.Int64("mock", 0, "only export results of this mock")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("expected the output .xlsx path")
	}
	dbh, err := open(cfg)
	if err != nil {
		return err
	}
	defer dbh.Close()
	svc, err := newService(cfg, dbh)
	if err != nil {
		return err
	}
	rows, err := svc.ListResults(context.Background(), mock.ResultListOpts{MockID: *mockID, ByScore: true})
	if err != nil {
		return err
	}
	if err := report.SaveResults(fs.Arg(0), rows); err != nil {
		return err
	}
	log.Printf("wrote %d results to %s", len(rows), fs.Arg(0))
	return nil
}
