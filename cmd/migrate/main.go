package main

import (
	config "go-twocheckout/configs"
	database "go-twocheckout/internal/pkg/db"
	"go-twocheckout/internal/pkg/logger"
)

func main() {
	logger.Setup()
	defer logger.Sync()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	db, err := database.Setup(env.DatabaseConfig())
	if err != nil {
		logger.Error.Println("Error setting up Database", err)
		return
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Warning.Println("Error closing database", err)
		}
	}()

	if err := db.RunMigrations(); err != nil {
		logger.Error.Println("Error running migrations", err)
		return
	}

	logger.Info.Println("Migrations completed successfully")
}
