package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

//go:embed seed_catalog.yaml
var defaultSeedCatalog []byte

type SeedCatalog struct {
	Admin      SeedAdmin      `yaml:"admin"`
	Categorias []SeedCategory `yaml:"categorias"`
}

type SeedAdmin struct {
	Nome  string `yaml:"nome"`
	Login string `yaml:"login"`
	Senha string `yaml:"senha"`
	Cargo string `yaml:"cargo"`
}

type SeedCategory struct {
	Nome        string          `yaml:"nome"`
	Cor         string          `yaml:"cor"`
	Icone       string          `yaml:"icone"`
	Ordem       int             `yaml:"ordem"`
	Pictogramas []SeedPictogram `yaml:"pictogramas"`
}

type SeedPictogram struct {
	Nome       string `yaml:"nome"`
	ImagemURL  string `yaml:"imagem_url"`
	AudioTexto string `yaml:"audio_texto"`
	Ordem      int    `yaml:"ordem"`
}

type SeedOptions struct {
	// CatalogFile overrides the embedded catalog when set.
	CatalogFile  string
	HashPassword func(plain string) (string, error)
}

type SeedReport struct {
	AdminCreated bool
	Categories   int
	Pictograms   int
}

func LoadSeedCatalog(path string) (*SeedCatalog, error) {
	raw := defaultSeedCatalog
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed catalog: %w", err)
		}
		raw = b
	}
	var cat SeedCatalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return &cat, nil
}

// Seed creates the default admin when its login is free and loads the
// starter catalog when no categories exist. Running it twice is a no-op.
func Seed(ctx context.Context, db *gorm.DB, log *logger.Logger, opts SeedOptions) (SeedReport, error) {
	var report SeedReport
	if opts.HashPassword == nil {
		return report, errors.New("seed: HashPassword is required")
	}
	cat, err := LoadSeedCatalog(opts.CatalogFile)
	if err != nil {
		return report, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cat.Admin.Login != "" {
			var count int64
			if err := tx.Model(&types.Professional{}).Where("login = ?", cat.Admin.Login).Count(&count).Error; err != nil {
				return fmt.Errorf("check admin: %w", err)
			}
			if count == 0 {
				hash, err := opts.HashPassword(cat.Admin.Senha)
				if err != nil {
					return fmt.Errorf("hash admin password: %w", err)
				}
				admin := &types.Professional{
					Name:     cat.Admin.Nome,
					Login:    cat.Admin.Login,
					Password: hash,
					Role:     cat.Admin.Cargo,
					Active:   true,
				}
				if err := tx.Create(admin).Error; err != nil {
					return fmt.Errorf("create admin: %w", err)
				}
				report.AdminCreated = true
				log.Info("Default admin created", "login", admin.Login)
			}
		}

		var categories int64
		if err := tx.Model(&types.Category{}).Count(&categories).Error; err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if categories > 0 {
			log.Info("Categories already present, skipping catalog seed", "count", categories)
			return nil
		}

		for _, sc := range cat.Categorias {
			c := &types.Category{Name: sc.Nome, Color: sc.Cor, Icon: sc.Icone, Order: sc.Ordem}
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("create category %q: %w", sc.Nome, err)
			}
			report.Categories++
			for _, sp := range sc.Pictogramas {
				p := &types.Pictogram{
					Name:       sp.Nome,
					ImageURL:   firstNonEmpty(sp.ImagemURL, types.DefaultPictogramImage),
					AudioText:  firstNonEmpty(sp.AudioTexto, sp.Nome),
					CategoryID: c.ID,
					Order:      sp.Ordem,
					Active:     true,
				}
				if err := tx.Create(p).Error; err != nil {
					return fmt.Errorf("create pictogram %q: %w", sp.Nome, err)
				}
				report.Pictograms++
			}
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, err
	}
	log.Info("Seed complete", "admin_created", report.AdminCreated, "categories", report.Categories, "pictograms", report.Pictograms)
	return report, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
