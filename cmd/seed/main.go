package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"github.com/brightsmiledental/clinic-platform/internal/appointments"
	"github.com/brightsmiledental/clinic-platform/internal/db"
	"github.com/brightsmiledental/clinic-platform/internal/schedule"
)

var services = []string{
	"cleaning",
	"checkup",
	"whitening",
	"filling",
	"root-canal",
	"extraction",
	"crown",
	"orthodontic-consult",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	sched := schedule.New(9, 17, 30, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	})

	if err := seedAppointments(context.Background(), pool, sched); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments fills roughly half the slots over a four week window
// centered on today. Past days get terminal statuses so the admin views
// have history to show.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, sched schedule.Schedule) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	total := 0
	for dayOffset := -14; dayOffset <= 14; dayOffset++ {
		date := today.AddDate(0, 0, dayOffset)
		slots := sched.Slots(date)
		if len(slots) == 0 {
			continue
		}

		for _, slot := range slots {
			if !gofakeit.Bool() {
				continue
			}

			status := appointments.StatusConfirmed
			if dayOffset < 0 {
				switch gofakeit.Number(0, 9) {
				case 0:
					status = appointments.StatusNoShow
				case 1:
					status = appointments.StatusCancelled
				default:
					status = appointments.StatusCompleted
				}
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO appointments (first_name, last_name, email, phone, service, date, time, notes, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (date, time) WHERE status <> 'cancelled' DO NOTHING
			`,
				gofakeit.FirstName(),
				gofakeit.LastName(),
				gofakeit.Email(),
				gofakeit.Phone(),
				services[gofakeit.Number(0, len(services)-1)],
				date.Format("2006-01-02"),
				slot,
				"",
				string(status),
			)
			if err != nil {
				return err
			}
			total++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", total)
	return nil
}
