package main

import (
	"log/slog"
	"movieapp/proj/internal/config"
	"movieapp/proj/internal/lib/validator"
	"movieapp/proj/internal/services"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	services  *services.Services
	validator *govalidator.Validate
	decoder   *schema.Decoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, svcs *services.Services) *Application {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(),
		decoder:   decoder,
		services:  svcs,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
