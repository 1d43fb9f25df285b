package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Every self-registered account starts as a client.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in the Password field.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Username    string             `bson:"username" json:"username"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role        string             `bson:"role" json:"role"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	VerifyToken *string            `bson:"verifyToken" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time         `bson:"updatedAt" json:"updatedAt"`
	Destroy     bool               `bson:"_destroy" json:"-"`
}

// UserSummary is the sanitized projection of a User that is safe to embed
// in board views, invitations, and search results. Password and
// verification token never leave the store through this type.
type UserSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Email       string             `bson:"email" json:"email"`
	Username    string             `bson:"username" json:"username"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role        string             `bson:"role" json:"role"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Summary strips credential fields from a full user document.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
