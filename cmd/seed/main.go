package main

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lodgesync/internal/database"
	"lodgesync/internal/domain"
)

func main() {
	db, err := database.Connect("lodgesync.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM date_blocks")
	db.Exec("DELETE FROM sync_feeds")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM units")
	db.Exec("DELETE FROM users")

	log.Println("Creating staff users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@lodgesync.local",
		PasswordHash: string(adminHash),
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)

	log.Println("Creating units...")
	units := []domain.Unit{
		{Name: "Garden Suite", Capacity: 2, Active: true, ExportToken: uuid.NewString()},
		{Name: "Sea View Apartment", Capacity: 4, Active: true, ExportToken: uuid.NewString()},
		{Name: "Attic Studio", Capacity: 2, Active: false, ExportToken: uuid.NewString()},
	}
	for i := range units {
		db.Create(&units[i])
	}

	log.Println("Creating feeds...")
	feeds := []domain.SyncFeed{
		{UnitID: units[0].ID, Channel: "airbnb", URL: "https://www.airbnb.com/calendar/ical/demo-garden.ics", Active: true},
		{UnitID: units[0].ID, Channel: "booking.com", URL: "https://ical.booking.com/v1/export?t=demo-garden", Active: true},
		{UnitID: units[1].ID, Channel: "airbnb", URL: "https://www.airbnb.com/calendar/ical/demo-seaview.ics", Active: true},
	}
	for i := range feeds {
		db.Create(&feeds[i])
	}

	log.Println("Creating bookings and blocks...")
	today := domain.Day(time.Now().UTC())
	booking := domain.Booking{
		UnitID:     units[0].ID,
		Arrival:    today.AddDate(0, 0, 7),
		Departure:  today.AddDate(0, 0, 10),
		GuestName:  "Maria Rossi",
		GuestEmail: "maria@example.com",
		Guests:     2,
		Status:     domain.BookingConfirmed,
	}
	db.Create(&booking)

	block := domain.DateBlock{
		UnitID: units[1].ID,
		Start:  today.AddDate(0, 0, 14),
		End:    today.AddDate(0, 0, 17),
		Reason: "Maintenance",
		Source: domain.SourceManual,
	}
	db.Create(&block)

	log.Println("Seed complete.")
	log.Printf("Admin login: admin@lodgesync.local / admin123")
	for _, u := range units {
		log.Printf("unit %d (%s) export token: %s", u.ID, u.Name, u.ExportToken)
	}
}
