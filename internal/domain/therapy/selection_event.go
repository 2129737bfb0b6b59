package therapy

import "time"

type SelectionEvent struct {
	ID              uint      `gorm:"primaryKey;column:id" json:"id"`
	SessionID       uint      `gorm:"not null;index;column:sessao_id" json:"sessao_id"`
	PictogramID     uint      `gorm:"not null;index;column:pictograma_id" json:"pictograma_id"`
	Timestamp       time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
	ResponseSeconds *float64  `gorm:"column:tempo_resposta_segundos" json:"tempo_resposta_segundos"`
}

func (SelectionEvent) TableName() string { return "historico_selecao" }
