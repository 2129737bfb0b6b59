package domain

import (
	"github.com/yungbote/caa-backend/internal/domain/auth"
	"github.com/yungbote/caa-backend/internal/domain/catalog"
	"github.com/yungbote/caa-backend/internal/domain/patient"
	"github.com/yungbote/caa-backend/internal/domain/professional"
	"github.com/yungbote/caa-backend/internal/domain/therapy"
)

type Professional = professional.Professional

type Patient = patient.Patient
type PatientPatch = patient.Patch

type Category = catalog.Category
type CategoryPatch = catalog.CategoryPatch
type Pictogram = catalog.Pictogram
type PictogramPatch = catalog.PictogramPatch

type Session = therapy.Session
type SelectionEvent = therapy.SelectionEvent

type LoginSession = auth.LoginSession

const DefaultPictogramImage = catalog.DefaultPictogramImage

// All lists every persisted row type, in migration order.
func All() []any {
	return []any{
		&Professional{},
		&Patient{},
		&Category{},
		&Pictogram{},
		&Session{},
		&SelectionEvent{},
		&LoginSession{},
	}
}
