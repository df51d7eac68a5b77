package main

import (
	"database/sql"
	"flag"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/invorya/stock-engine/pkg/config"
	"github.com/invorya/stock-engine/pkg/logger"
)

// Runner de migraciones goose: `migrate [up|down|status|...]` con las
// migraciones SQL de ./migrations.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./migrations", "directorio con las migraciones")
	flag.Parse()

	db, err := sql.Open("pgx", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir conexión a PostgreSQL")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar conexión")
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("goose")
	}
	fmt.Printf("goose %s ok\n", command)
}
