package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quillhub/quillhub-backend/api"
	"github.com/quillhub/quillhub-backend/config"
	"github.com/quillhub/quillhub-backend/database"
	"github.com/quillhub/quillhub-backend/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg := config.New()

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.PostgresDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	if err := bootstrapSuperuser(currentDB, cfg); err != nil {
		fmt.Printf("Error bootstrapping superuser: %v\n", err)
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// bootstrapSuperuser creates the superuser named in SUPERUSER_USERNAME if
// it does not exist yet. A blog is provisioned for it like for any other
// registration.
func bootstrapSuperuser(db database.Database, cfg map[string]string) error {
	su, err := config.GetSuperuser(cfg)
	if err != nil {
		return err
	}
	if su.Username == "" {
		return nil
	}

	existing, err := db.UserRepo().FindByUsername(su.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     su.Username,
		Email:        su.Email,
		PasswordHash: string(hash),
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := db.UserRepo().Add(&user); err != nil {
		return err
	}

	blog := models.Blog{
		UserID: user.ID,
		Title:  api.DefaultBlogTitle(su.Username),
	}
	if err := db.BlogRepo().Add(&blog); err != nil {
		return err
	}

	fmt.Printf("Created superuser %q\n", su.Username)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
