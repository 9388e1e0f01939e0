package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/awsbudi/risk-tracker/internal/calendar"
	"github.com/awsbudi/risk-tracker/internal/cli"
	"github.com/awsbudi/risk-tracker/internal/cli/formatter"
	"github.com/awsbudi/risk-tracker/internal/config"
	"github.com/awsbudi/risk-tracker/internal/db"
	"github.com/awsbudi/risk-tracker/internal/repository"
	"github.com/awsbudi/risk-tracker/internal/service"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

func main() {
	var database *sql.DB
	app := &cli.App{}

	// Detect interactive terminal for delete confirmations.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Config is loaded after flag parsing so --config can point elsewhere.
	app.Setup = func(configPath string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		database, err = db.OpenDB(cfg.DB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		level, _ := cfg.LogLevel()
		format := service.LogFormat(strings.ToLower(cfg.Log.Format))
		logger := service.NewLogger(os.Stderr, format, level)

		opts := []service.Option{
			service.WithHooks(service.NewAuditHooks(repository.NewSQLiteAuditRepo(database), logger)),
			service.WithValidator(validate.New(calendar.Default, cfg.Boundary())),
			service.WithHierarchy(cfg.Hierarchy()),
		}
		if cfg.Log.Calls {
			opts = append(opts, service.WithObserver(service.NewLogUseCaseObserver(os.Stderr, format, level)))
		}

		app.SetServices(cli.NewApp(database, db.NewSQLiteUnitOfWork(database), opts...))
		app.DefaultUser = cfg.User
		app.LockPath = cfg.Generate.LockFile
		return nil
	}

	err := cli.NewRootCmd(app).Execute()
	if database != nil {
		database.Close()
	}
	if err != nil {
		fmt.Fprint(os.Stderr, formatter.FormatError(err))
		os.Exit(1)
	}
}
