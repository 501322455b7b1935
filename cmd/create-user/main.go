package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"ubigeo_app_go/config"
	"ubigeo_app_go/db"
	"ubigeo_app_go/forms"
	"ubigeo_app_go/logger"
	"ubigeo_app_go/models"
	"ubigeo_app_go/services"
)

func main() {
	role := flag.String("role", models.RoleAdmin, "role of the new user (admin, supervisor, asesor)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	if err := db.Initialize(cfg, zlog); err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.User{}, &models.HistoryEvent{}); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	reader := bufio.NewReader(os.Stdin)

	// Get user details
	fmt.Println("=== Crear usuario ===")
	fmt.Println()

	fmt.Print("Usuario: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Nombre: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	// Get password securely
	fmt.Print("Contraseña: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println() // New line after password input

	if err := services.ValidatePassword(password); err != nil {
		log.Fatalf("Invalid password: %v", err)
	}

	user := &models.User{}
	values := map[string][]string{
		"username": {username},
		"name":     {name},
		"role":     {*role},
		"password": {password},
	}
	if _, errs := forms.BindUser(values, user, true); len(errs) > 0 {
		for field, msgs := range errs {
			fmt.Printf("  %s: %s\n", field, strings.Join(msgs, " "))
		}
		os.Exit(1)
	}

	hashedPassword, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	user.Password = hashedPassword

	if err := services.NewUserService(db.DB, zlog).Create(context.Background(), user); err != nil {
		log.Fatalf("Failed to create user: %s", services.UserMessage(err))
	}

	fmt.Println()
	fmt.Println("✓ Usuario creado correctamente")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Usuario: %s\n", user.Username)
	fmt.Printf("  Rol: %s\n", user.Role)
	fmt.Println()
	fmt.Printf("Ingrese en http://localhost:%s/ con estas credenciales.\n", cfg.ServerPort)
}
