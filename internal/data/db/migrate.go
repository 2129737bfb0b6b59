package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/caa-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.All()...); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates the indexes AutoMigrate cannot express.
// Both Postgres and SQLite support partial indexes with this syntax.
func EnsureIndexes(db *gorm.DB) error {
	// at most one open session per patient
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_sessao_open_per_paciente
		ON sessao(paciente_id)
		WHERE finalizada = false;
	`).Error; err != nil {
		return fmt.Errorf("create idx_sessao_open_per_paciente: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_pictograma_categoria_ordem ON pictograma(categoria_id, ordem);`).Error; err != nil {
		return fmt.Errorf("create idx_pictograma_categoria_ordem: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_historico_sessao_timestamp ON historico_selecao(sessao_id, timestamp);`).Error; err != nil {
		return fmt.Errorf("create idx_historico_sessao_timestamp: %w", err)
	}
	return nil
}
