package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lucasmateusli/equiptrack/internal/server/api"
	"github.com/lucasmateusli/equiptrack/internal/server/services"
	"github.com/lucasmateusli/equiptrack/internal/server/storage"
	"github.com/lucasmateusli/equiptrack/internal/server/storage/fstore"
	"github.com/lucasmateusli/equiptrack/pkg/version"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var rootCmd = &cobra.Command{
	Use:   "equiptrack-server",
	Short: "EquipTrack - equipment reservation and tracking server",
	Long:  "Server component for EquipTrack providing the HTTP API, reservation sweep and audit trail",
	// Default to serve command if no subcommand provided
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the equipment server",
	Run:   runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetVersion("equiptrack-server"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, adminCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openStore picks the backend from STORAGE_BACKEND (postgres by default;
// firestore for the hosted variant).
func openStore(ctx context.Context) (storage.Store, error) {
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "postgres"
	}

	switch backend {
	case "postgres":
		db, err := storage.NewPostgresDB()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		log.Println("Running database migrations...")
		if err := runEmbeddedMigrations(db.DB.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return storage.NewPostgresStore(db), nil

	case "firestore":
		return fstore.New(ctx)

	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND: %s", backend)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.Printf("=== EquipTrack Server ===")
	log.Printf("%s", version.GetVersion("equiptrack-server"))

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()
	log.Println("Storage backend connected")

	// Email is optional; signups still work without the welcome mail
	emailService, err := services.NewEmailService()
	if err != nil {
		log.Printf("Warning: email disabled: %v", err)
		emailService = nil
	}

	authService := services.NewAuthService(store.Profiles(), emailService)
	equipmentService := services.NewEquipmentService(store)
	labelService := services.NewLabelService(store.Equipment())
	agendaService := services.NewAgendaService(store.Agenda(), store.Technicians())

	authHandler := api.NewAuthHandler(authService)
	equipmentHandler := api.NewEquipmentHandler(equipmentService, labelService)
	agendaHandler := api.NewAgendaHandler(agendaService)
	logsHandler := api.NewLogsHandler(store.Audit())

	r := api.NewRouter(store.Profiles(), api.Handlers{
		Auth:      authHandler,
		Equipment: equipmentHandler,
		Agenda:    agendaHandler,
		Logs:      logsHandler,
	})

	// Get server config
	host := os.Getenv("API_HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	port = findAvailableAPIPort(port)
	addr := fmt.Sprintf("%s:%s", host, port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Release expired reservations in the background
	go sweepExpiredReservations(equipmentService)

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func sweepInterval() time.Duration {
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return time.Minute
}

func sweepExpiredReservations(equipmentService *services.EquipmentService) {
	ticker := time.NewTicker(sweepInterval())
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()
		if count, err := equipmentService.SweepExpired(ctx); err != nil {
			log.Printf("Failed to sweep expired reservations: %v", err)
		} else if count > 0 {
			log.Printf("Released %d expired reservations", count)
		}
	}
}

func runEmbeddedMigrations(db *sql.DB) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	// Sort migrations by filename to ensure correct order
	var migrations []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			migrations = append(migrations, entry.Name())
		}
	}
	sort.Strings(migrations)

	for _, migration := range migrations {
		log.Printf("Applying migration: %s", migration)

		content, err := migrationsFS.ReadFile(filepath.Join("migrations", migration))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", migration, err)
		}

		// Execute migration (ignore errors if objects already exist)
		if _, err := db.Exec(string(content)); err != nil {
			log.Printf("Warning: Migration %s: %v (may already exist)", migration, err)
		}
	}

	return nil
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port string) bool {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return false // Port in use
	}
	ln.Close()
	return true // Port available
}

// findAvailableAPIPort finds an available port for the API server
func findAvailableAPIPort(preferredPort string) string {
	if isPortAvailable(preferredPort) {
		return preferredPort
	}

	log.Printf("Port %s in use, trying alternatives...", preferredPort)

	startPort := 8080
	if p, err := strconv.Atoi(preferredPort); err == nil {
		startPort = p
	}

	for i := 1; i <= 20; i++ {
		portStr := strconv.Itoa(startPort + i)
		if isPortAvailable(portStr) {
			log.Printf("Found available port: %s", portStr)
			return portStr
		}
	}

	// No ports available, return preferred (will fail with clear error)
	log.Printf("No available ports found, will attempt %s", preferredPort)
	return preferredPort
}
