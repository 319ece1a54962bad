package commands

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mosaicdev/mosaic/internal/logger"
	"github.com/mosaicdev/mosaic/internal/models"
	"github.com/mosaicdev/mosaic/internal/provision"
)

// SeedConfig describes the organizations to provision and any templates
// to create beyond the built-in defaults.
type SeedConfig struct {
	Organizations []SeedOrganization `yaml:"organizations"`
}

type SeedOrganization struct {
	ID        string         `yaml:"id"`
	Templates []SeedTemplate `yaml:"templates"`
}

type SeedTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type SeedCmd struct {
	File string `arg:"" help:"YAML seed file path"`

	Store StoreFlags `embed:""`
}

func (c *SeedCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var cfg SeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(cfg.Organizations) == 0 {
		return fmt.Errorf("seed file %s lists no organizations", c.File)
	}

	runner, cleanup, err := c.Store.buildRunner(ctx, log)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := provision.NewService(runner)

	initialized, err := svc.SysIsInit(ctx)
	if err != nil {
		return err
	}
	if initialized {
		return fmt.Errorf("system is already initialized")
	}

	for _, org := range cfg.Organizations {
		if err := svc.SeedGlobalRoles(ctx, org.ID); err != nil {
			return fmt.Errorf("failed to seed roles for %s: %w", org.ID, err)
		}
		if err := svc.InitGlobalConfig(ctx, org.ID); err != nil {
			return fmt.Errorf("failed to provision organization %s: %w", org.ID, err)
		}
		log.Info().Str("organization", org.ID).Msg("Provisioned global configuration")

		for _, tmpl := range org.Templates {
			templateID, err := svc.CreateTemplate(ctx, models.CreateTemplateParam{
				Name:         tmpl.Name,
				Description:  tmpl.Description,
				Icon:         tmpl.Icon,
				Organization: org.ID,
			}, models.SystemCreator)
			if err != nil {
				return fmt.Errorf("failed to create template %s for %s: %w", tmpl.Name, org.ID, err)
			}
			log.Info().
				Str("organization", org.ID).
				Str("template", tmpl.Name).
				Str("identifier", templateID).
				Msg("Created template")
		}
	}

	if err := svc.InitSystem(ctx); err != nil {
		return err
	}
	log.Info().Int("organizations", len(cfg.Organizations)).Msg("Seed completed")
	return nil
}
