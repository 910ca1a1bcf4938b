package auditlog

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"go.uber.org/zap"
)

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Auditlog keeps the change history of the fixture backend in memory.
type Auditlog struct {
	mu      sync.Mutex
	entries []models.AuditLog
	logger  *zap.Logger
	now     func() time.Time
}

func NewAuditLog(logger *zap.Logger) *Auditlog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditlog{logger: logger, now: time.Now}
}

// Log records action on item. data is stored as its JSON object form; a
// value that does not marshal to an object is logged and dropped.
func (a *Auditlog) Log(action string, userID *int, data interface{}, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	entry.UserID = userID

	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			err = json.Unmarshal(raw, &entry.Data)
		}
		if err != nil {
			a.logger.Warn("Unable to store audit log data",
				zap.String("resource_type", entry.ResourceType), zap.Int("resource_id", entry.ResourceID), zap.Error(err))
			entry.Data = nil
		}
	}

	a.mu.Lock()
	entry.ID = len(a.entries) + 1
	entry.CreatedAt = a.now().UTC()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()

	a.logger.Debug("Created audit log entry",
		zap.String("action", action), zap.String("resource_type", entry.ResourceType), zap.Int("resource_id", entry.ResourceID))
}

// ResourceLog returns the entries of one resource, oldest first.
func (a *Auditlog) ResourceLog(resourceType string, id int) []models.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := []models.AuditLog{}
	for _, e := range a.entries {
		if e.ResourceType == resourceType && e.ResourceID == id {
			out = append(out, e)
		}
	}
	return out
}
