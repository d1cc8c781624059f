package models

// CheckOwnership reports whether principalID owns a resource owned by
// ownerID. Strict identity equality; fail-closed when either operand is
// missing (zero). Every mutating operation on owned content must pass this
// gate before touching the store.
func CheckOwnership(ownerID, principalID uint) bool {
	if ownerID == 0 || principalID == 0 {
		return false
	}
	return ownerID == principalID
}
