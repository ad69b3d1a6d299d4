// Package models contains data structures for the application's domain models.
package models

import "time"

// Role classifies what a user account is allowed to do in the marketplace.
type Role string

const (
	// RoleSeller can create a store and manage its products.
	RoleSeller Role = "vendedor"
	// RoleBuyer can browse, comment and like only.
	RoleBuyer Role = "comprador"
)

// User represents an account in the OAC Market application.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:nome;not null" json:"nome"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"column:senha;not null" json:"-"`
	Role      Role      `gorm:"column:tipo;type:varchar(20);not null" json:"tipo"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	WhatsApp  string    `gorm:"column:whatsapp" json:"whatsapp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Stores    []Store   `gorm:"foreignKey:SellerID" json:"lojas,omitempty"`
}

// IsSeller reports whether the account may manage a store.
func (u *User) IsSeller() bool {
	return u != nil && u.Role == RoleSeller
}
