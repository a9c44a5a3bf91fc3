package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/sistemaagil/vistoria/backup"
	"github.com/sistemaagil/vistoria/config"
	"github.com/sistemaagil/vistoria/handlers"
	"github.com/sistemaagil/vistoria/repository"
	"github.com/sistemaagil/vistoria/routes"
	"github.com/sistemaagil/vistoria/storage"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalw("load configuration", "error", err)
	}

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		zap.S().Fatalw("connect to database", "error", err)
	}
	if err := config.Migrations(db); err != nil {
		zap.S().Fatalw("run migrations", "error", err)
	}

	var store storage.Store
	if cfg.UseGCS {
		gcs, err := storage.NewGCS(context.Background(), cfg.GCSBucket)
		if err != nil {
			zap.S().Fatalw("connect to GCS", "bucket", cfg.GCSBucket, "error", err)
		}
		defer gcs.Close()
		store = gcs
	} else {
		store = storage.NewLocal(cfg.UploadDir, cfg.SignatureDir)
	}

	recorder := backup.NewWriter(cfg.BackupDir)
	repo := repository.New(db, cfg.TokenTTL, recorder)
	h := handlers.New(repo, store, recorder, cfg)
	h.Version = Version

	zap.S().Infow("server starting", "port", cfg.Port, "save_policy", cfg.SavePolicy, "gcs", cfg.UseGCS)
	if err := http.ListenAndServe(":"+cfg.Port, routes.RegisterRoutes(h, cfg)); err != nil {
		zap.S().Fatalw("server stopped", "error", err)
	}
}
