package handler

import (
	"notifyd/internal/app/registry"
	"notifyd/internal/configs"
)

// AppDeps bundles the shared dependencies handed to every handler.
type AppDeps struct {
	Registry *registry.Registry
	Config   *configs.AppConfig
}
