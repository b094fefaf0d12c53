package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/baharkarakas/kuota-backend/internal/auth"
	"github.com/baharkarakas/kuota-backend/internal/config"
	"github.com/baharkarakas/kuota-backend/internal/db"
	"github.com/baharkarakas/kuota-backend/internal/logger"
	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate       apply database migrations
  create-user   create a login (-username -password -role [-name] [-customer])
  seed          insert demo customers and logins`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "migrate":
		cfg.Migrate = true
		err = withStore(ctx, cfg, log, func(repo.Repositories) error { return nil })
	case "create-user":
		err = runCreateUser(ctx, cfg, log, os.Args[2:])
	case "seed":
		err = withStore(ctx, cfg, log, func(r repo.Repositories) error { return seed(ctx, r, log, os.Stdout) })
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

func withStore(ctx context.Context, cfg config.Config, log *slog.Logger, fn func(repo.Repositories) error) error {
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store.Repos)
}

func userService(r repo.Repositories, log *slog.Logger) *services.UserService {
	// token manager and revoker are unused by CreateUser
	return services.NewUserService(r.Users, r.Customers, auth.NewTokenManager("", "", "", 0, 0), auth.NewMemoryRevoker(), log)
}

func runCreateUser(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "login name (required)")
	password := fs.String("password", "", "password (required)")
	role := fs.String("role", string(models.RoleCustomer), "admin or customer")
	name := fs.String("name", "", "display name")
	customer := fs.String("customer", "", "linked customer id (customer role)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("-username and -password are required")
	}

	in := services.CreateUserInput{
		Username: *username,
		Password: *password,
		Role:     models.Role(*role),
		Name:     *name,
	}
	if *customer != "" {
		id, err := models.ParseCustomerID(*customer)
		if err != nil {
			return err
		}
		in.CustomerID = &id
	}

	return withStore(ctx, cfg, log, func(r repo.Repositories) error {
		u, err := userService(r, log).CreateUser(ctx, in)
		if err != nil {
			return err
		}
		log.Info("user created", "id", u.ID, "username", u.Username, "role", u.Role)
		return nil
	})
}

type demoCustomer struct {
	name, email, phone, address string
	balance                     int64
	username, password          string
}

var demo = []demoCustomer{
	{"Budi Santoso", "budi@example.com", "081234567890", "Jl. Merdeka No. 1, Jakarta", 150000, "budi", "budi1234"},
	{"Siti Rahayu", "siti@example.com", "081298765432", "Jl. Asia Afrika No. 8, Bandung", 60000, "siti", "siti1234"},
	{"Andi Wijaya", "andi@example.com", "081377788899", "Jl. Pemuda No. 12, Surabaya", 20000, "andi", "andi1234"},
}

// seed creates an admin login and a few customers with their own logins.
// Existing usernames are skipped so seeding twice is harmless.
func seed(ctx context.Context, r repo.Repositories, log *slog.Logger, out io.Writer) error {
	us := userService(r, log)

	_, err := us.CreateUser(ctx, services.CreateUserInput{
		Username: "admin", Password: "admin123", Role: models.RoleAdmin, Name: "Administrator",
	})
	switch {
	case errors.Is(err, repo.ErrConflict):
		fmt.Fprintln(out, "admin exists, skipping")
	case err != nil:
		return err
	default:
		fmt.Fprintln(out, "created admin / admin123")
	}

	for _, d := range demo {
		if _, err := r.Users.GetByUsername(ctx, d.username); err == nil {
			fmt.Fprintf(out, "%s exists, skipping\n", d.username)
			continue
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		c, err := r.Customers.Create(ctx, models.Customer{
			Name: d.name, Email: d.email, Phone: d.phone, Address: d.address, Balance: d.balance,
		})
		if err != nil {
			return fmt.Errorf("seed customer %s: %w", d.name, err)
		}
		if _, err := us.CreateUser(ctx, services.CreateUserInput{
			Username: d.username, Password: d.password, Role: models.RoleCustomer, Name: d.name, CustomerID: &c.ID,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", d.username, err)
		}
		fmt.Fprintf(out, "created customer %d %s (%s) / %s\n", c.ID, d.name, services.FormatRupiah(d.balance), d.username)
	}
	return nil
}
