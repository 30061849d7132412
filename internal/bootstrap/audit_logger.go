package bootstrap

import "context"

// AuditLog is an operational audit entry emitted around server
// lifecycle events. Workflow-level auditing lives in internal/audit.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
