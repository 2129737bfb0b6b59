package auth

import (
	"time"

	"github.com/google/uuid"
)

// LoginSession is the server-side half of a professional's login; the signed
// token handed to the client only references it by ID.
type LoginSession struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	ProfessionalID uint      `gorm:"index;not null;column:usuario_id" json:"usuario_id"`
	ExpiresAt      time.Time `gorm:"index;not null;column:expires_at" json:"expires_at"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

func (LoginSession) TableName() string { return "login_sessao" }

func (s *LoginSession) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}
