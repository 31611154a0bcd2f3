package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"faqcenter/cmd/app"
	"faqcenter/internal/config"
	handlers "faqcenter/internal/handler"
	"faqcenter/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, _, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, db, cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/health", handler.HealthHandler).Methods("GET")

	router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")

	router.HandleFunc("/api/faqs", handler.ListFAQs).Methods("GET")
	router.HandleFunc("/api/faqs", handler.CreateFAQ).Methods("POST")
	router.HandleFunc("/api/faqs/{id:[0-9]+}", handler.GetFAQ).Methods("GET")
	router.HandleFunc("/api/faqs/slug/{slug}", handler.GetFAQBySlug).Methods("GET")
	router.HandleFunc("/api/faqs/{id:[0-9]+}", handler.UpdateFAQ).Methods("PUT")
	router.HandleFunc("/api/faqs/{id:[0-9]+}", handler.DeleteFAQ).Methods("DELETE")

	router.HandleFunc("/api/faqs/{id:[0-9]+}/publish", handler.PublishFAQ).Methods("POST")
	router.HandleFunc("/api/faqs/{id:[0-9]+}/unpublish", handler.UnpublishFAQ).Methods("POST")

	router.HandleFunc("/api/faqs/{id:[0-9]+}/versions", handler.GetVersionHistory).Methods("GET")
	router.HandleFunc("/api/faqs/{id:[0-9]+}/versions/{version:[0-9]+}/restore", handler.RestoreVersion).Methods("POST")

	router.HandleFunc("/api/faqs/{id:[0-9]+}/images", handler.UploadImage).Methods("POST")
	router.HandleFunc("/api/images/{imageId:[0-9]+}", handler.UpdateImage).Methods("PATCH")
	router.HandleFunc("/api/images/{imageId:[0-9]+}", handler.DeleteImage).Methods("DELETE")

	router.HandleFunc("/api/feedback", handler.SubmitFeedback).Methods("POST")
	router.HandleFunc("/api/feedback", handler.ListFeedbacks).Methods("GET")
	router.HandleFunc("/api/feedback/{id:[0-9]+}/auto-replies", handler.GetAutoReplyLogs).Methods("GET")
	router.HandleFunc("/api/auto-reply-templates", handler.ListAutoReplyTemplates).Methods("GET")

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.AuthMiddleware(cfg),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
