package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shvarc/provider/internal/pkg/env"
)

type dbConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

func configFromEnv() dbConfig {
	return dbConfig{
		User:     env.GetEnv("DB_USER", "provider"),
		Password: env.GetEnv("DB_PASSWORD", "provider"),
		Host:     env.GetEnv("DB_HOST", "db"),
		Port:     env.GetEnv("DB_PORT", "3306"),
		Name:     env.GetEnv("DB_NAME", "provider_db"),
	}
}

// URL is the golang-migrate database URL. Migration files hold several
// statements each, so multiStatements is required.
func (c dbConfig) URL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true", c.User, c.Password, c.Host, c.Port, c.Name)
}

func (c dbConfig) String() string {
	return fmt.Sprintf("%s@%s:%s/%s", c.User, c.Host, c.Port, c.Name)
}

type command struct {
	usage string
	args  int
	run   func(m *migrate.Migrate, args []string) (string, error)
}

var commands = map[string]command{
	"up": {
		usage: "apply all pending migrations",
		run: func(m *migrate.Migrate, _ []string) (string, error) {
			return done(m.Up(), "Migrations applied", "No change: database is up to date")
		},
	},
	"down": {
		usage: "roll back the last migration",
		run: func(m *migrate.Migrate, _ []string) (string, error) {
			return done(m.Steps(-1), "Rolled back the last migration", "")
		},
	},
	"goto": {
		usage: "migrate to version N",
		args:  1,
		run: func(m *migrate.Migrate, args []string) (string, error) {
			version, err := parseVersion(args[0])
			if err != nil {
				return "", err
			}
			return done(m.Migrate(version), fmt.Sprintf("Migrated to version %d", version), fmt.Sprintf("No change: database is at version %d", version))
		},
	},
	"force": {
		usage: "mark version N as applied and clear the dirty flag",
		args:  1,
		run: func(m *migrate.Migrate, args []string) (string, error) {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return "", fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return done(m.Force(version), fmt.Sprintf("Forced version %d", version), "")
		},
	},
	"status": {
		usage: "show the current migration version",
		run: func(m *migrate.Migrate, _ []string) (string, error) {
			version, dirty, err := m.Version()
			return versionStatus(version, dirty, err)
		},
	},
}

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok || len(os.Args)-2 < cmd.args {
		printUsage()
		os.Exit(1)
	}

	conf := configFromEnv()
	log.Printf("Connecting to database: %s", conf)

	m, err := migrate.New("file://"+env.GetEnv("MIGRATIONS_PATH", "migrations"), conf.URL())
	if err != nil {
		log.Fatalf("Could not initialize migrations: %v", err)
	}

	msg, err := cmd.run(m, os.Args[2:])
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		log.Printf("Could not close migration resources: %v, %v", sourceErr, dbErr)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
	log.Println(msg)
}

// done turns a migrate result into a log line. ErrNoChange is not a
// failure.
func done(err error, applied, unchanged string) (string, error) {
	switch {
	case err == nil:
		return applied, nil
	case errors.Is(err, migrate.ErrNoChange) && unchanged != "":
		return unchanged, nil
	}
	return "", err
}

func parseVersion(s string) (uint, error) {
	version, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return uint(version), nil
}

func versionStatus(version uint, dirty bool, err error) (string, error) {
	if errors.Is(err, migrate.ErrNilVersion) {
		return "No migrations applied yet", nil
	}
	if err != nil {
		return "", fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Sprintf("Current migration version: %d (dirty)", version), nil
	}
	return fmt.Sprintf("Current migration version: %d", version), nil
}

func printUsage() {
	fmt.Println("Usage: go run ./cmd/migrate <command> [version]")
	fmt.Println("Commands:")
	for _, name := range []string{"up", "down", "goto", "force", "status"} {
		arg := ""
		if commands[name].args > 0 {
			arg = " N"
		}
		fmt.Printf("  %-8s %s\n", name+arg, commands[name].usage)
	}
}
