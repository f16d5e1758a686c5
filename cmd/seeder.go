package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/app"
	"github.com/frahmantamala/dashboard-portal/internal/company"
	"github.com/frahmantamala/dashboard-portal/internal/project"
	"github.com/frahmantamala/dashboard-portal/internal/user"
	"github.com/frahmantamala/dashboard-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var seedSample bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap admin",
	Long:  `Create the administrator from the admin config section and, with --sample, a demo company, project and viewer.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
			log.Fatal("admin.email and admin.password must be set")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		services, err := app.New(app.Options{
			DB:       gormDB,
			SQLDB:    db.DB,
			Security: cfg.Security,
			Logger:   logger.LoggerWrapper(),
		})
		if err != nil {
			log.Fatalf("failed to build services: %v", err)
		}

		ctx := context.Background()
		if err := seedUser(ctx, services.UserService, user.CreateUserDTO{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			IsAdmin:  true,
		}); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}

		if seedSample {
			if err := seedSampleData(ctx, services); err != nil {
				log.Fatalf("failed to seed sample data: %v", err)
			}
		}
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedSample, "sample", false, "also create a demo company, project and viewer account")
}

func seedUser(ctx context.Context, svc *user.Service, dto user.CreateUserDTO) error {
	created, err := svc.Create(ctx, dto)
	if errors.Is(err, internal.ErrUserExists) {
		fmt.Println("user already exists:", dto.Email)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Seeded user:", created.Email, "admin:", created.IsAdmin)
	return nil
}

func seedSampleData(ctx context.Context, deps *app.Dependencies) error {
	acme, err := deps.CompanyService.Create(ctx, company.CreateCompanyDTO{
		Name:        "Acme Corp",
		Description: "Demo tenant",
	})
	if errors.Is(err, internal.ErrCompanyExists) {
		fmt.Println("sample data already present")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println("Seeded company:", acme.Name)

	sales, err := deps.ProjectService.Create(ctx, project.CreateProjectDTO{
		Name:         "Sales Overview",
		Description:  "Monthly revenue by region",
		DashboardURL: "https://app.powerbi.com/view?r=sample",
		Company:      acme.ID,
	})
	if err != nil {
		return err
	}
	fmt.Println("Seeded project:", sales.Name)

	return seedUser(ctx, deps.UserService, user.CreateUserDTO{
		Email:     "viewer@acme.example",
		Password:  "viewer123",
		Companies: []string{acme.ID},
		Projects:  []string{sales.ID},
	})
}
