package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lucasmateusli/equiptrack/internal/server/services"
	"github.com/lucasmateusli/equiptrack/pkg/models"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative commands",
	Long:  "Administrative commands for managing profiles, technicians and equipment",
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant the admin role to a profile",
	Run:   runPromoteCommand,
}

var addTechnicianCmd = &cobra.Command{
	Use:   "add-technician",
	Short: "Register a new technician",
	Run:   runAddTechnicianCommand,
}

var listEquipmentCmd = &cobra.Command{
	Use:   "list-equipment",
	Short: "List equipment, optionally filtered by status",
	Run:   runListEquipmentCommand,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Release expired reservations once and exit",
	Run:   runSweepCommand,
}

func init() {
	promoteCmd.Flags().String("username", "", "Profile username (required)")
	promoteCmd.MarkFlagRequired("username")

	addTechnicianCmd.Flags().String("nome", "", "Technician name (required)")
	addTechnicianCmd.MarkFlagRequired("nome")

	listEquipmentCmd.Flags().String("status", "", "Filter by status (disponivel, reservado, utilizado)")

	adminCmd.AddCommand(
		promoteCmd,
		addTechnicianCmd,
		listEquipmentCmd,
		sweepCmd,
	)
}

func runPromoteCommand(cmd *cobra.Command, args []string) {
	username, _ := cmd.Flags().GetString("username")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()

	authService := services.NewAuthService(store.Profiles(), nil)
	profile, err := authService.Promote(ctx, username)
	if err != nil {
		log.Fatalf("Failed to promote %s: %v", username, err)
	}

	fmt.Printf("Profile %s (%s) is now %s\n", profile.Username, profile.Email, profile.Role)
}

func runAddTechnicianCommand(cmd *cobra.Command, args []string) {
	nome, _ := cmd.Flags().GetString("nome")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()

	tech := &models.Technician{Nome: nome}
	if err := store.Technicians().Create(ctx, tech); err != nil {
		log.Fatalf("Failed to create technician: %v", err)
	}

	fmt.Printf("Technician created: %s (%s)\n", tech.Nome, tech.ID)
}

func runListEquipmentCommand(cmd *cobra.Command, args []string) {
	status, _ := cmd.Flags().GetString("status")
	if status != "" && !models.IsValidStatus(status) {
		log.Fatalf("Invalid status %q (expected disponivel, reservado or utilizado)", status)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()

	equipmentService := services.NewEquipmentService(store)
	items, err := equipmentService.List(ctx, services.EquipmentFilter{Status: status})
	if err != nil {
		log.Fatalf("Failed to list equipment: %v", err)
	}

	if len(items) == 0 {
		fmt.Println("No equipment found")
		return
	}

	fmt.Printf("%-38s %-17s %-22s %-6s %-10s %s\n", "ID", "IMEI", "ICCID", "EMP", "STATUS", "RESERVADO POR")
	for _, item := range items {
		reservedBy := "-"
		if item.ReservedBy != nil {
			reservedBy = *item.ReservedBy
		}
		fmt.Printf("%-38s %-17s %-22s %-6s %-10s %s\n",
			item.ID, item.IMEI, item.ICCID, item.Empresa, item.Status, reservedBy)
	}
	fmt.Printf("\nTotal: %d\n", len(items))
}

func runSweepCommand(cmd *cobra.Command, args []string) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer store.Close()

	equipmentService := services.NewEquipmentService(store)
	count, err := equipmentService.SweepExpired(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	fmt.Printf("Released %d expired reservations\n", count)
}
