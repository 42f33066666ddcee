package customer

import "time"

// Customer is keyed by unique email. The reconciliation engine only ever
// reads or creates customers, it never deletes them.
type Customer struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
