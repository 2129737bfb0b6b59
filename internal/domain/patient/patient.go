package patient

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/caa-backend/internal/platform/patch"
)

type Patient struct {
	ID             uint            `gorm:"primaryKey;column:id" json:"id"`
	Name           string          `gorm:"size:100;not null;column:nome" json:"nome"`
	BirthDate      *datatypes.Date `gorm:"column:data_nascimento" json:"data_nascimento"`
	Diagnosis      string          `gorm:"type:text;column:diagnostico" json:"diagnostico"`
	SupportLevel   string          `gorm:"size:50;column:nivel_suporte" json:"nivel_suporte"`
	Preferences    string          `gorm:"type:text;column:preferencias" json:"preferencias"`
	PhotoURL       string          `gorm:"size:200;column:foto_perfil" json:"foto_perfil"`
	ProfessionalID uint            `gorm:"not null;index;column:usuario_id" json:"usuario_id"`
	Active         bool            `gorm:"not null;default:true;index;column:ativo" json:"ativo"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime;column:data_cadastro" json:"data_cadastro"`
}

func (Patient) TableName() string { return "paciente" }

// Patch lists the columns a partial update may touch.
type Patch struct {
	Name         patch.Field[string]
	BirthDate    patch.Field[datatypes.Date]
	Diagnosis    patch.Field[string]
	SupportLevel patch.Field[string]
	Preferences  patch.Field[string]
	PhotoURL     patch.Field[string]
}

// Columns maps the present fields to column updates; explicit nulls clear the column.
func (p Patch) Columns() map[string]any {
	out := map[string]any{}
	if p.Name.Present() {
		out["nome"] = p.Name.Value
	}
	if p.BirthDate.Set {
		if p.BirthDate.Null {
			out["data_nascimento"] = nil
		} else {
			out["data_nascimento"] = p.BirthDate.Value
		}
	}
	if p.Diagnosis.Set {
		out["diagnostico"] = p.Diagnosis.Value
	}
	if p.SupportLevel.Set {
		out["nivel_suporte"] = p.SupportLevel.Value
	}
	if p.Preferences.Set {
		out["preferencias"] = p.Preferences.Value
	}
	if p.PhotoURL.Set {
		out["foto_perfil"] = p.PhotoURL.Value
	}
	return out
}
