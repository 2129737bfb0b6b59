package catalog

import "github.com/yungbote/caa-backend/internal/platform/patch"

type Category struct {
	ID    uint   `gorm:"primaryKey;column:id" json:"id"`
	Name  string `gorm:"size:50;uniqueIndex;not null;column:nome" json:"nome"`
	Color string `gorm:"size:7;column:cor" json:"cor"`
	Icon  string `gorm:"size:50;column:icone" json:"icone"`
	Order int    `gorm:"column:ordem" json:"ordem"`
}

func (Category) TableName() string { return "categoria" }

type CategoryPatch struct {
	Name  patch.Field[string]
	Color patch.Field[string]
	Icon  patch.Field[string]
	Order patch.Field[int]
}

func (p CategoryPatch) Columns() map[string]any {
	out := map[string]any{}
	if p.Name.Present() {
		out["nome"] = p.Name.Value
	}
	if p.Color.Present() {
		out["cor"] = p.Color.Value
	}
	if p.Icon.Present() {
		out["icone"] = p.Icon.Value
	}
	if p.Order.Present() {
		out["ordem"] = p.Order.Value
	}
	return out
}
