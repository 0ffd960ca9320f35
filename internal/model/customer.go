package model

import "time"

type Customer struct {
	ID         int
	Name       string
	Address    string
	PostalCode string
	Phone      string
	DivisionID int
	CreatedBy  string
	UpdatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Contact struct {
	ID    int
	Name  string
	Email string
}

type User struct {
	ID           int
	Username     string
	PasswordHash string
}

type Country struct {
	ID   int
	Name string
}

// Division is a first-level region inside a country.
type Division struct {
	ID        int
	Name      string
	CountryID int
}
