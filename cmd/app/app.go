package app

import (
	"log"

	"faqcenter/internal/config"
	"faqcenter/internal/database"
	"faqcenter/internal/mailer"
	"faqcenter/internal/repository"
	"faqcenter/internal/service"
	"faqcenter/internal/storage"
)

func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MinIO: %v", err)
	}

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, minioClient, mailer.NewSMTPMailer(cfg))

	return db, repo, services
}
