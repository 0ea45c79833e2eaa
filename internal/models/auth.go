package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is carried in access tokens issued by the identity service.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPERADMIN"
	RoleAdmin       UserRole = "ADMIN"
	RoleCoordinator UserRole = "COORDINATOR"
	RoleTeacher     UserRole = "TEACHER"
)

// PlannerRoles may run, commit and audit scheduling for a plan.
var PlannerRoles = []UserRole{RoleSuperAdmin, RoleAdmin, RoleCoordinator}

// JWTClaims is the access token payload. Teachers authenticate with their
// teacher id as UserID.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
