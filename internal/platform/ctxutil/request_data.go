package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries the authenticated caller for one request.
type RequestData struct {
	ProfessionalID uint
	SessionID      uuid.UUID
	TokenString    string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// ProfessionalID returns the authenticated professional, or 0 when the request is anonymous.
func ProfessionalID(ctx context.Context) uint {
	rd := GetRequestData(ctx)
	if rd == nil {
		return 0
	}
	return rd.ProfessionalID
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
