package receipts

import (
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/opalaxis/beamsolopex-companion/pkg/permissions"
)

// Authorizer is the read-only view of the logged-in session.
type Authorizer interface {
	CurrentUser() (models.User, bool)
	HasPermission(name string) bool
}

// Access answers which receipt actions the current session may perform.
// A nil Authorizer denies everything.
type Access struct {
	auth Authorizer
}

func NewAccess(auth Authorizer) Access {
	return Access{auth: auth}
}

func (a Access) has(ps ...permissions.Permission) bool {
	if a.auth == nil {
		return false
	}
	for _, p := range ps {
		if a.auth.HasPermission(p.String()) {
			return true
		}
	}
	return false
}

func (a Access) CanCreate() bool {
	return a.has(permissions.CreateAssetReceipt, permissions.ManageAssetReceipts)
}

func (a Access) CanView() bool {
	return a.has(permissions.ViewAssetReceipt, permissions.ManageAssetReceipts)
}

// CanEdit also lets the user who received the stock correct their own receipt.
func (a Access) CanEdit(r models.AssetReceipt) bool {
	if a.has(permissions.EditAssetReceipt, permissions.ManageAssetReceipts) {
		return true
	}
	if a.auth == nil {
		return false
	}
	user, ok := a.auth.CurrentUser()
	return ok && user.Name != "" && r.ReceivedBy == user.Name
}

func (a Access) CanDelete() bool {
	return a.has(permissions.DeleteAssetReceipt, permissions.ManageAssetReceipts)
}
