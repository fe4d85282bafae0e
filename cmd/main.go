package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/vaultkeeper/internal/cli"
	"github.com/dtroode/vaultkeeper/internal/config"
	"github.com/dtroode/vaultkeeper/internal/credential"
	"github.com/dtroode/vaultkeeper/internal/logger"
	"github.com/dtroode/vaultkeeper/internal/repository/sqlstore"
	"github.com/dtroode/vaultkeeper/internal/service"
	"github.com/dtroode/vaultkeeper/internal/session"
	"github.com/dtroode/vaultkeeper/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig(".env")
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(level, os.Stderr)

	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	db, err := sqlstore.NewConnection(ctx, dialect, cfg.Database.DSN, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	hasher, err := credential.New(cfg.Hash.Algorithm, cfg.Hash.BcryptCost)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	secret, err := session.SigningSecret(cfg.Session.Secret, cfg.Session.SecretFile)
	if err != nil {
		logger.Fatal("failed to initialize session secret", "error", err)
	}

	tokenManager := token.NewJWT(secret, cfg.Session.TTL)
	ctxMgr := session.NewManager()
	authenticator := session.NewAuthenticator(session.NewFile(cfg.Session.File), tokenManager, ctxMgr, logger)

	accessService := service.NewAccess(db, logger)
	identityService := service.NewIdentity(db, hasher, logger)
	secretService := service.NewSecret(db, accessService, cfg.Generator.Length, logger)
	groupService := service.NewGroup(db, accessService, logger)

	app := cli.NewApp(cli.Deps{
		Identity:       identityService,
		Secrets:        secretService,
		Groups:         groupService,
		Auth:           authenticator,
		ContextManager: ctxMgr,
		Migrate:        db.Migrate,
		Prompter:       cli.NewPrompter(os.Stdin, int(os.Stdin.Fd()), os.Stderr),
		Out:            os.Stdout,
		ErrOut:         os.Stderr,
		Logger:         logger,
		Version:        buildVersion + " (" + buildCommit + ", " + buildDate + ")",
	})

	return app.Run(ctx, os.Args[1:])
}
