package professional

import "time"

// Professional is a therapist account. Login is a username plus a numeric password.
type Professional struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:100;not null;column:nome" json:"nome"`
	Login     string    `gorm:"size:50;uniqueIndex;not null;column:login" json:"login"`
	Password  string    `gorm:"size:100;not null;column:senha" json:"-"`
	Role      string    `gorm:"size:50;column:cargo" json:"cargo"`
	Active    bool      `gorm:"not null;default:true;column:ativo" json:"ativo"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;column:data_criacao" json:"data_criacao"`
}

func (Professional) TableName() string { return "usuario" }
