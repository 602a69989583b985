// staffctl manages admin-panel staff accounts directly against the configured
// document store. There is no registration endpoint; accounts are provisioned
// from the command line.
//
//	staffctl create -email owner@shop.com -name "Owner" -password s3cret... [-role admin]
//	staffctl check  -email owner@shop.com -password s3cret...
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/example/sneaker-shop/internal/auth"
	"github.com/example/sneaker-shop/internal/config"
	"github.com/example/sneaker-shop/internal/infrastructure/store"
)

// staffStore joins the directory lookup with the write side both backends
// implement.
type staffStore interface {
	auth.StaffDirectory
	Put(ctx context.Context, staff auth.Staff) error
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Staffctl] Failed to load configuration: %v", err)
	}

	staff, cleanup := openStore(ctx, cfg)
	defer cleanup()

	switch os.Args[1] {
	case "create":
		runCreate(ctx, staff, os.Args[2:])
	case "check":
		runCheck(ctx, staff, os.Args[2:])
	default:
		usage()
	}
}

func openStore(ctx context.Context, cfg config.Config) (staffStore, func()) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[Staffctl] Failed to connect to PostgreSQL: %v", err)
		}
		if err := store.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("[Staffctl] Failed to ensure schema: %v", err)
		}
		return store.NewPostgresStaff(db), func() { db.Close() }

	case config.BackendDynamo:
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			log.Fatalf("[Staffctl] Failed to create DynamoDB client: %v", err)
		}
		return store.NewDynamoStaff(client, cfg.DynamoStaffTable), func() {}

	default:
		log.Fatalf("[Staffctl] Staff accounts need a durable backend, got %q", cfg.Backend)
		return nil, nil
	}
}

func runCreate(ctx context.Context, staff staffStore, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	email := fs.String("email", "", "staff email (login name)")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "password, at least 8 characters")
	role := fs.String("role", auth.RoleStaff, "role: staff or admin")
	fs.Parse(args)

	if *email == "" || *password == "" {
		log.Fatal("[Staffctl] -email and -password are required")
	}
	if !auth.StaffRole(*role) {
		log.Fatalf("[Staffctl] Unknown role %q", *role)
	}

	if _, err := staff.GetByEmail(ctx, *email); err == nil {
		log.Fatalf("[Staffctl] An account for %s already exists", *email)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("[Staffctl] %v", err)
	}

	account := auth.Staff{
		ID:           uuid.New().String(),
		Email:        *email,
		Name:         *name,
		PasswordHash: hash,
		Role:         *role,
		CreatedAt:    time.Now(),
	}
	if err := staff.Put(ctx, account); err != nil {
		log.Fatalf("[Staffctl] Failed to store account: %v", err)
	}

	fmt.Printf("Created %s account %s (%s)\n", account.Role, account.Email, account.ID)
}

func runCheck(ctx context.Context, staff staffStore, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	email := fs.String("email", "", "staff email")
	password := fs.String("password", "", "password to verify")
	fs.Parse(args)

	if *email == "" || *password == "" {
		log.Fatal("[Staffctl] -email and -password are required")
	}

	account, err := staff.GetByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("[Staffctl] %v", err)
	}

	if !auth.CheckPassword(*password, account.PasswordHash) {
		fmt.Println("Password does NOT match")
		os.Exit(1)
	}
	fmt.Printf("Password matches for %s (role %s)\n", account.Email, account.Role)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: staffctl <create|check> [flags]")
	os.Exit(2)
}
