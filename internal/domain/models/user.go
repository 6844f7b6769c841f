package models

// User is a staff or admin account for the back-office.
type User struct {
	ID           int64
	Name         string
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Status       string
}
