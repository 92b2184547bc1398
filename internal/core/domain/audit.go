package domain

import "time"

// Audit actions recorded by the services. Decision is "allow" or "deny" for
// authorization-relevant actions and "success"/"failure" for credential ones.
const (
	AuditLogin          = "login"
	AuditRegister       = "register"
	AuditUpdateUser     = "update_user"
	AuditDeleteUser     = "delete_user"
	AuditUpdateBusiness = "update_business"
	AuditDeleteBusiness = "delete_business"
)

// AuditEntry is one persisted line of the security audit trail.
type AuditEntry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	TargetID  string    `json:"target_id,omitempty"`
	Decision  string    `json:"decision"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
