//go:build wireinject
// +build wireinject

package commands

import (
	"github.com/google/wire"
	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/server"
)

// InitializeApp wires up the application from cfg.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	panic(wire.Build(server.ProviderSet))
}
