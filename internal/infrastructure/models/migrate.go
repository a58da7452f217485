package models

// All lists every model owned by the platform, in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Charity{}, &Donation{}}
}
