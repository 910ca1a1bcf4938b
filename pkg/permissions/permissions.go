package permissions

// Permission is a grant name as the backend issues it at login.
type Permission string

const (
	CreateAssetReceipt  Permission = "create_asset_receipt"
	EditAssetReceipt    Permission = "edit_asset_receipt"
	DeleteAssetReceipt  Permission = "delete_asset_receipt"
	ViewAssetReceipt    Permission = "view_asset_receipt"
	ManageAssetReceipts Permission = "manage_asset_receipts"
)

// Set is the permission list of the signed-in user.
type Set []string

// Has reports whether p was granted.
func (s Set) Has(p Permission) bool {
	for _, granted := range s {
		if granted == string(p) {
			return true
		}
	}
	return false
}

// Any reports whether at least one of ps was granted.
func (s Set) Any(ps ...Permission) bool {
	for _, p := range ps {
		if s.Has(p) {
			return true
		}
	}
	return false
}

func (p Permission) String() string {
	return string(p)
}
