package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"evalportal/internal/config"
	"evalportal/internal/db"
	"evalportal/internal/logger"
	"evalportal/internal/repository"
	"evalportal/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "seed",
		Short:         "Database utilities for the evaluation portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newSeedCmd(), newUpdateProjectCmd())
	return rootCmd
}

func newSeedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the project catalog and the administrator account",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			reset, err := cmd.Flags().GetBool("reset")
			if err != nil {
				return err
			}

			cfg, log, gormDB, err := setup()
			if err != nil {
				return err
			}

			seedService := service.NewSeedService(
				repository.NewUserRepository(gormDB),
				repository.NewProjectRepository(gormDB),
				repository.NewEvaluationRepository(gormDB),
				cfg.AdminStudentID,
			)
			ctx := context.Background()

			if reset {
				log.Warn("Deleting all evaluations, projects and users...")
				if err := seedService.Reset(ctx); err != nil {
					log.WithError(err).Error("reset failed")
					return err
				}
			}

			result, err := seedService.Seed(ctx, service.DefaultCatalog)
			if err != nil {
				log.WithError(err).Error("seed failed")
				return err
			}

			log.WithFields(logrus.Fields{
				"projects_created": result.ProjectsCreated,
				"admin_id":         result.Admin.ID,
				"admin_student_id": result.Admin.StudentID,
			}).Info("Seed completed successfully")
			return nil
		},
	}

	seedCmd.Flags().Bool("reset", false, "delete all evaluations, projects and users before seeding")
	return seedCmd
}

func newUpdateProjectCmd() *cobra.Command {
	var id, name, description string

	updateCmd := &cobra.Command{
		Use:   "update-project",
		Short: "Rename a project and replace its description",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("invalid project id %q: %w", id, err)
			}

			_, log, gormDB, err := setup()
			if err != nil {
				return err
			}

			projectService := service.NewProjectService(repository.NewProjectRepository(gormDB))
			project, err := projectService.Update(context.Background(), projectID, name, description)
			if err != nil {
				log.WithError(err).WithField("project_id", projectID).Error("update failed")
				return err
			}

			log.WithFields(logrus.Fields{
				"project_id": project.ID,
				"name":       project.Name,
			}).Info("Project updated")
			return nil
		},
	}

	updateCmd.Flags().StringVar(&id, "id", "", "id of the project to update")
	updateCmd.Flags().StringVar(&name, "name", "", "new project name")
	updateCmd.Flags().StringVar(&description, "description", "", "new project description")
	_ = updateCmd.MarkFlagRequired("id")
	_ = updateCmd.MarkFlagRequired("name")
	return updateCmd
}

func setup() (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		return nil, nil, nil, err
	}
	log.Info("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Error("Failed to run migrations")
		return nil, nil, nil, err
	}
	return cfg, log, gormDB, nil
}
