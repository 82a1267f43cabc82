package auditlog

import (
	"log"

	"modparts/pkg/models"
)

// LogStore is the persistence surface for audit entries; the repository in
// internal/auditlog implements it.
type LogStore interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
	GetResourceLog(resourceID int, resourceType string) (*[]models.AuditLog, error)
}

type Auditlog struct {
	r LogStore
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log persists an audit entry asynchronously; callers fire it in a goroutine
// and a failed write never blocks the stock operation it describes. userID is
// the acting operator, nil when the action was not tied to an account.
func (a *Auditlog) Log(action string, userID *int, data interface{}, item Auditable) {
	if a.r == nil {
		return
	}

	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = userID

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create audit log entry for id ", auditLog.ResourceID)
		return
	}
}

// ResourceLog returns the audit trail for one resource, newest first.
func (a *Auditlog) ResourceLog(resourceID int, resourceType string) (*[]models.AuditLog, error) {
	return a.r.GetResourceLog(resourceID, resourceType)
}

func NewAuditLog(store LogStore) *Auditlog {
	a := Auditlog{r: store}

	return &a
}
