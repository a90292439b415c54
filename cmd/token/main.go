// Command token mints a service token for a host order system.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	config "go-twocheckout/configs"
	types "go-twocheckout/internal/common/type"
	"go-twocheckout/internal/pkg/jwt"
	"go-twocheckout/internal/pkg/logger"
	"go-twocheckout/internal/pkg/validation"

	"github.com/google/uuid"
)

func main() {
	name := flag.String("name", "", "client name, e.g. the webshop identifier")
	scope := flag.String("scope", "checkout", "token scope (checkout|admin)")
	ttl := flag.Duration("ttl", 365*24*time.Hour, "token lifetime")
	flag.Parse()

	logger.Setup()

	// loads .env so JWT_SECRET is picked up the same way as the api
	if _, err := config.GetEnv(); err != nil {
		logger.Error.Println("Error getting environment", err)
		os.Exit(1)
	}

	if err := validation.Setup(); err != nil {
		logger.Error.Println("Failed to setup validation", err)
		os.Exit(1)
	}

	client := types.ClientWithAuth{
		ID:    uuid.New(),
		Name:  *name,
		Scope: *scope,
	}
	if err := validation.Validate(client); err != nil {
		logger.Error.Println(err)
		os.Exit(2)
	}

	token, exp, err := jwt.GenerateToken(client, *ttl)
	if err != nil {
		logger.Error.Println("Failed to generate token", err)
		os.Exit(1)
	}

	fmt.Printf("client_id: %s\nexpires:   %s\ntoken:     %s\n", client.ID, exp.Format(time.RFC3339), token)
}
