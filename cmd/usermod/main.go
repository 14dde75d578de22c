package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/database"
	"github.com/shvarc/provider/internal/pkg/env"
)

var roles = map[string]string{
	"promote": models.ROLE_ADMIN,
	"demote":  models.ROLE_USER,
}

func main() {
	env.SetupEnvFile()

	if len(os.Args) != 3 {
		printUsage()
		os.Exit(1)
	}

	users := repository.NewUserRepository(database.SetupDatabase())
	msg, err := run(context.Background(), users, os.Args[1], os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	log.Println(msg)
}

// run changes the role of a user. The new role applies from the user's
// next login.
func run(ctx context.Context, users repository.UserRepository, command, username string) (string, error) {
	role, ok := roles[command]
	if !ok {
		return "", fmt.Errorf("unknown command %q", command)
	}

	if err := users.SetRole(ctx, username, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("no user %q", username)
		}
		return "", fmt.Errorf("set role of %q: %w", username, err)
	}
	return fmt.Sprintf("%s is now %s", username, role), nil
}

func printUsage() {
	fmt.Println("Usage: go run ./cmd/usermod <promote|demote> <username>")
	fmt.Println("  promote - grant the admin role")
	fmt.Println("  demote  - revoke the admin role")
}
