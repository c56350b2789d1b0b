// Command migrate aplica o revierte las migraciones embebidas contra DATABASE_URL.
//
//	migrate up | down | version
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|version")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migrator")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrator")
		}
	}()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var v uint
		var dirty bool
		v, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión de esquema")
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", os.Args[1]).Msg("migración fallida")
		os.Exit(1)
	}
}
