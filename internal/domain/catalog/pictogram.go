package catalog

import "github.com/yungbote/caa-backend/internal/platform/patch"

const DefaultPictogramImage = "/static/images/placeholder.png"

// Pictogram is a selectable image card; AudioText is what gets spoken when it is tapped.
type Pictogram struct {
	ID         uint   `gorm:"primaryKey;column:id" json:"id"`
	Name       string `gorm:"size:50;not null;column:nome" json:"nome"`
	ImageURL   string `gorm:"size:200;column:imagem_url" json:"imagem_url"`
	AudioText  string `gorm:"size:200;column:audio_texto" json:"audio_texto"`
	CategoryID uint   `gorm:"not null;index;column:categoria_id" json:"categoria_id"`
	Order      int    `gorm:"column:ordem" json:"ordem"`
	Active     bool   `gorm:"not null;default:true;index;column:ativo" json:"ativo"`
}

func (Pictogram) TableName() string { return "pictograma" }

type PictogramPatch struct {
	Name       patch.Field[string]
	ImageURL   patch.Field[string]
	AudioText  patch.Field[string]
	CategoryID patch.Field[uint]
	Order      patch.Field[int]
}

func (p PictogramPatch) Columns() map[string]any {
	out := map[string]any{}
	if p.Name.Present() {
		out["nome"] = p.Name.Value
	}
	if p.ImageURL.Present() {
		out["imagem_url"] = p.ImageURL.Value
	}
	if p.AudioText.Present() {
		out["audio_texto"] = p.AudioText.Value
	}
	if p.CategoryID.Present() {
		out["categoria_id"] = p.CategoryID.Value
	}
	if p.Order.Present() {
		out["ordem"] = p.Order.Value
	}
	return out
}
