package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedSecret string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		if cfg.Security.SeedSecret == "" {
			log.Fatal("seeding is disabled: security.seed_secret is not configured")
		}
		if seedSecret != cfg.Security.SeedSecret {
			log.Fatal("seeding refused: secret mismatch")
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		password := "password123"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		users := []struct {
			Username string
			Email    string
			Role     string
			FullName string
		}{
			{"admin", "admin@siteops.local", "admin", "Site Administrator"},
			{"manager", "manager@siteops.local", "manager", "Project Manager"},
			{"supervisor1", "supervisor1@siteops.local", "supervisor", "Supervisor One"},
			{"supervisor2", "supervisor2@siteops.local", "supervisor", "Supervisor Two"},
			{"worker1", "worker1@siteops.local", "worker", "Worker One"},
			{"worker2", "worker2@siteops.local", "worker", "Worker Two"},
			{"worker3", "worker3@siteops.local", "worker", "Worker Three"},
			{"worker4", "worker4@siteops.local", "worker", "Worker Four"},
		}
		for _, u := range users {
			err := db.Exec(`INSERT INTO users (username, email, password_hash, role, full_name, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, true, now(), now())
				ON CONFLICT (username) DO NOTHING`,
				u.Username, u.Email, string(hash), u.Role, u.FullName).Error
			if err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Username, err)
			}
		}
		fmt.Println("Seeded users (password: password123)")

		userID := func(username string) int64 {
			var id int64
			if err := db.Raw("SELECT id FROM users WHERE username = ?", username).Row().Scan(&id); err != nil {
				log.Fatalf("failed to look up user %s: %v", username, err)
			}
			return id
		}
		managerID := userID("manager")

		projectName := "Riverside Tower"
		var projectID int64
		if err := db.Raw("SELECT id FROM projects WHERE name = ?", projectName).Row().Scan(&projectID); err != nil {
			if err := db.Exec(`INSERT INTO projects (name, description, location, start_date, status, manager_id, created_at, updated_at)
				VALUES (?, 'Mixed-use tower construction', 'Riverside District', CURRENT_DATE, 'active', ?, now(), now())`,
				projectName, managerID).Error; err != nil {
				log.Fatalf("failed to seed project: %v", err)
			}
			if err := db.Raw("SELECT id FROM projects WHERE name = ?", projectName).Row().Scan(&projectID); err != nil {
				log.Fatalf("failed to look up project: %v", err)
			}
			fmt.Println("Seeded project:", projectName)
		}

		sites := []struct {
			Name       string
			Supervisor string
		}{
			{"Tower A Foundation", "supervisor1"},
			{"Tower B Structure", "supervisor2"},
		}
		siteIDs := map[string]int64{}
		for _, s := range sites {
			var id int64
			if err := db.Raw("SELECT id FROM sites WHERE name = ?", s.Name).Row().Scan(&id); err != nil {
				if err := db.Exec(`INSERT INTO sites (project_id, name, location, supervisor_id, status, created_at, updated_at)
					VALUES (?, ?, 'Riverside District', ?, 'active', now(), now())`,
					projectID, s.Name, userID(s.Supervisor)).Error; err != nil {
					log.Fatalf("failed to seed site %s: %v", s.Name, err)
				}
				if err := db.Raw("SELECT id FROM sites WHERE name = ?", s.Name).Row().Scan(&id); err != nil {
					log.Fatalf("failed to look up site %s: %v", s.Name, err)
				}
				fmt.Println("Seeded site:", s.Name)
			}
			siteIDs[s.Name] = id
		}

		teams := map[string][]string{
			"Tower A Foundation": {"worker1", "worker2"},
			"Tower B Structure":  {"worker3", "worker4"},
		}
		for siteName, workers := range teams {
			for _, w := range workers {
				if err := db.Exec(`INSERT INTO site_teams (site_id, worker_id, assigned_date)
					VALUES (?, ?, CURRENT_DATE)
					ON CONFLICT (site_id, worker_id) DO NOTHING`,
					siteIDs[siteName], userID(w)).Error; err != nil {
					log.Fatalf("failed to seed team for %s: %v", siteName, err)
				}
			}
		}
		fmt.Println("Seeded site teams")

		tasks := []struct {
			Site     string
			Title    string
			Assignee string
			Priority string
		}{
			{"Tower A Foundation", "Excavate footing trenches", "worker1", "high"},
			{"Tower A Foundation", "Install rebar cages", "worker2", "medium"},
			{"Tower B Structure", "Erect column formwork", "worker3", "urgent"},
		}
		for _, t := range tasks {
			var exists int
			if err := db.Raw("SELECT 1 FROM tasks WHERE title = ? AND site_id = ?", t.Title, siteIDs[t.Site]).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(`INSERT INTO tasks (site_id, title, assigned_to, assigned_by, status, priority, due_date, created_at, updated_at)
				VALUES (?, ?, ?, ?, 'pending', ?, CURRENT_DATE + 7, now(), now())`,
				siteIDs[t.Site], t.Title, userID(t.Assignee), managerID, t.Priority).Error; err != nil {
				log.Fatalf("failed to seed task %s: %v", t.Title, err)
			}
		}
		fmt.Println("Seeded tasks")

		materials := []struct {
			Name     string
			Unit     string
			Category string
		}{
			{"Portland Cement", "bag", "concrete"},
			{"Rebar 12mm", "ton", "steel"},
			{"Sand", "m3", "aggregate"},
		}
		for _, m := range materials {
			var id int64
			if err := db.Raw("SELECT id FROM materials WHERE name = ?", m.Name).Row().Scan(&id); err != nil {
				if err := db.Exec(`INSERT INTO materials (name, unit, category, created_at)
					VALUES (?, ?, ?, now())`, m.Name, m.Unit, m.Category).Error; err != nil {
					log.Fatalf("failed to seed material %s: %v", m.Name, err)
				}
				if err := db.Raw("SELECT id FROM materials WHERE name = ?", m.Name).Row().Scan(&id); err != nil {
					log.Fatalf("failed to look up material %s: %v", m.Name, err)
				}
			}
			if err := db.Exec(`INSERT INTO material_inventory (site_id, material_id, quantity, min_threshold, updated_at)
				VALUES (?, ?, 100, 20, now())
				ON CONFLICT (site_id, material_id) DO NOTHING`,
				siteIDs["Tower A Foundation"], id).Error; err != nil {
				log.Fatalf("failed to seed inventory for %s: %v", m.Name, err)
			}
		}
		fmt.Println("Seeded materials and inventory")

		equipment := []struct {
			Name   string
			Type   string
			Serial string
		}{
			{"Tower Crane TC-1", "crane", "TC-2021-001"},
			{"Concrete Mixer CM-3", "mixer", "CM-2019-003"},
			{"Excavator EX-7", "excavator", "EX-2020-007"},
		}
		for _, e := range equipment {
			if err := db.Exec(`INSERT INTO equipment (name, type, serial_number, status, created_at, updated_at)
				VALUES (?, ?, ?, 'available', now(), now())
				ON CONFLICT (serial_number) DO NOTHING`,
				e.Name, e.Type, e.Serial).Error; err != nil {
				log.Fatalf("failed to seed equipment %s: %v", e.Name, err)
			}
		}
		fmt.Println("Seeded equipment")

		for _, w := range []string{"worker1", "worker2"} {
			if err := db.Exec(`INSERT INTO attendance (user_id, site_id, attendance_date, clock_in, status, marked_by, created_at, updated_at)
				VALUES (?, ?, CURRENT_DATE, now(), 'present', ?, now(), now())
				ON CONFLICT (user_id, attendance_date, site_id) DO NOTHING`,
				userID(w), siteIDs["Tower A Foundation"], userID(w)).Error; err != nil {
				log.Fatalf("failed to seed attendance for %s: %v", w, err)
			}
		}
		fmt.Println("Seeded attendance")

		fmt.Println("Database seeded successfully")
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedSecret, "secret", "", "Seed secret; must match security.seed_secret")
}
