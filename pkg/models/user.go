package models

type User struct {
	ID           int    `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Fullname     string `json:"fullname" db:"fullname"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	WarehouseID  *int   `json:"warehouse_id" db:"warehouse_id"`
}

type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Fullname    string `json:"fullname" binding:"required"`
	Role        string `json:"role" binding:"required"`
	WarehouseID *int   `json:"warehouse_id"`
}

// UserChanges carries a partial update; nil fields stay untouched.
type UserChanges struct {
	Fullname    *string `json:"fullname"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
	WarehouseID *int    `json:"warehouse_id"`
}
