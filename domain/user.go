package domain

const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
)

type User struct {
	SerialNo int64  `json:"serial_no" db:"serial_no"`
	Username string `json:"username" db:"username"`
	Password string `json:"password,omitempty" db:"password"`
	Role     string `json:"role" db:"role"`
}

type Pharmacist struct {
	SerialNo int64  `json:"serial_no" db:"serial_no"`
	Username string `json:"username" db:"username"`
}
