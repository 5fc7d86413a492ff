// Package admin implements the operator commands shipped as cmd/admin:
// applying migrations and creating accounts from the terminal.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/config"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/feedback/internal/server/services"
)

const usage = `usage:
  admin [config flags] migrate
  admin [config flags] create-user [-u username]`

var ErrUsage = errors.New(usage)

type App struct {
	config *config.Config
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return &App{config: cfg, in: bufio.NewReader(in), out: out}
}

// Run executes the command named by the first non-flag argument.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd, rest := splitCommand(args)

	switch cmd {
	case "migrate":
		return a.migrate(ctx)
	case "create-user":
		return a.createUser(ctx, rest)
	default:
		return ErrUsage
	}
}

// splitCommand skips the config flags (and their values) that precede the
// command word.
func splitCommand(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "migrate", "create-user":
			return args[i], args[i+1:]
		}
	}
	return "", nil
}

func (a *App) openDB(ctx context.Context) (*sql.DB, repomanager.RepositoryManager, error) {
	db, dialect, err := dbx.Open(a.config.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}

	return db, rm, nil
}

func (a *App) migrate(ctx context.Context) error {
	db, _, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(a.out, "Migrations applied")
	return nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		name, err := GetSimpleText(a.in, "Enter user name", a.out)
		if err != nil {
			return err
		}
		*username = name
	}
	*username = strings.TrimSpace(*username)
	if *username == "" {
		return errors.New("username is required")
	}
	// same rules as the web sign-up form, checked before asking for a password
	if err := services.ValidateUserName(*username); err != nil {
		return err
	}

	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if len(password) == 0 {
		return errors.New("password is required")
	}
	if !bytes.Equal(password, confirm) {
		return errors.New("passwords do not match")
	}
	if err := services.ValidateCredentials(*username, string(password)); err != nil {
		return err
	}

	db, rm, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := services.NewUserService(db, rm, a.config).Register(ctx, *username, string(password))
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("user %q already exists", *username)
		}
		return err
	}

	fmt.Fprintf(a.out, "Created user %q (id %d)\n", user.UserName, user.ID)
	return nil
}
