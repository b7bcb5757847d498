// seed_admin crea (o promueve) el primer SUPER_ADMIN. Sin él nadie puede registrar usuarios.
//
// Uso: go run ./cmd/seed_admin -email admin@empresa.co -password secreto [-name "Administrador"]
// También lee SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD. La conexión sale de la configuración normal (DATABASE_URL, DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-motorenting/pkg/config"
	"github.com/jhoicas/crm-motorenting/pkg/logger"
)

func main() {
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "email del super administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña (mínimo 6 caracteres)")
	name := flag.String("name", "Super Administrador", "nombre visible")
	flag.Parse()

	if err := run(strings.ToLower(strings.TrimSpace(*email)), *password, *name); err != nil {
		fmt.Fprintln(os.Stderr, "seed_admin:", err)
		os.Exit(1)
	}
}

func run(email, password, name string) error {
	if email == "" || len(password) < 6 {
		return fmt.Errorf("se requieren -email y -password (mínimo 6 caracteres)")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_admin")

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}

	users := postgres.NewUserRepository(pool)
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	now := time.Now()
	if existing != nil {
		existing.Role = entity.RoleSuperAdmin
		existing.Status = entity.UserStatusActive
		existing.PasswordHash = string(hash)
		existing.UpdatedAt = now
		if err := users.Update(ctx, existing); err != nil {
			return err
		}
		log.Info().Int64("user_id", existing.ID).Str("email", email).Msg("usuario promovido a SUPER_ADMIN")
		return nil
	}

	u := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         entity.RoleSuperAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	log.Info().Int64("user_id", u.ID).Str("email", email).Msg("SUPER_ADMIN creado")
	return nil
}
