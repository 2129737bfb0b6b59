package therapy

import "time"

// Session is one timed therapy encounter. It is open until Finalized is set,
// at which point EndedAt, DurationMinutes and Evaluation are filled in.
type Session struct {
	ID              uint       `gorm:"primaryKey;column:id" json:"id"`
	PatientID       uint       `gorm:"not null;index;column:paciente_id" json:"paciente_id"`
	ProfessionalID  uint       `gorm:"not null;index;column:profissional_id" json:"profissional_id"`
	StartedAt       time.Time  `gorm:"not null;column:data_inicio" json:"data_inicio"`
	EndedAt         *time.Time `gorm:"column:data_fim" json:"data_fim"`
	DurationMinutes *int       `gorm:"column:duracao_minutos" json:"duracao_minutos"`
	Observations    *string    `gorm:"type:text;column:observacoes" json:"observacoes"`
	Evaluation      *string    `gorm:"type:text;column:avaliacao" json:"avaliacao"`
	Finalized       bool       `gorm:"not null;default:false;column:finalizada" json:"finalizada"`
}

func (Session) TableName() string { return "sessao" }

// DurationMinutesBetween truncates the elapsed time to whole minutes.
func DurationMinutesBetween(start, end time.Time) int {
	secs := end.Sub(start).Seconds()
	if secs <= 0 {
		return 0
	}
	return int(secs / 60)
}
