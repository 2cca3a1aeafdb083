package httpx

import "context"

type ctxKey string

const (
	CtxKeySubjectID   ctxKey = "subject_id"
	CtxKeySubjectType ctxKey = "subject_type"
)

// SubjectFromCtx returns the authenticated subject id and type, if any.
func SubjectFromCtx(ctx context.Context) (id, subjectType string) {
	if v, ok := ctx.Value(CtxKeySubjectID).(string); ok {
		id = v
	}
	if v, ok := ctx.Value(CtxKeySubjectType).(string); ok {
		subjectType = v
	}
	return id, subjectType
}
