package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/oiorda/orda/core"
)

// Roles
const (
	RoleStudent = "student"
	RolePsych   = "psych" // school psychologist
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RolePsych, RoleAdmin}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Psychologist", Value: RolePsych},
		{Name: "Admin", Value: RoleAdmin},
	}

	// grades taught at the school
	MinGrade = 7
	MaxGrade = 11
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	SchoolID     null.Int  `json:"school_id" db:"school_id"`
	ClassroomID  null.Int  `json:"classroom_id" db:"classroom_id"`
	Grade        null.Int  `json:"grade" db:"grade"`
	Lang         string    `json:"lang" db:"lang"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    null.Time `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsPsych() bool   { return u.Role == RolePsych }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsStaff tells whether u may see the results of other users.
func (u *User) IsStaff() bool { return u.IsPsych() || u.IsAdmin() }

// CanSee tells whether u may read the results of other.
// Admins see everybody, psychologists the students of their school, students only themselves.
func (u *User) CanSee(other User) bool {
	switch {
	case u.ID == other.ID:
		return true
	case u.IsAdmin():
		return true
	case u.IsPsych():
		return !u.SchoolID.Valid || u.SchoolID == other.SchoolID
	}
	return false
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required,notblank"`
	Email           string   `json:"email" validate:"required,email"`
	Role            string   `json:"role" validate:"required,allroles"`
	SchoolID        null.Int `json:"school_id"`
	ClassroomID     null.Int `json:"classroom_id"`
	Grade           null.Int `json:"grade"`
	Lang            string   `json:"lang" validate:"omitempty,lang"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.Lang = core.CleanString(nu.Lang, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email)
}

type QueryFilter struct {
	IDs         []int    `query:"id"`
	Roles       []string `query:"role"`
	SchoolID    null.Int `query:"school_id"`
	ClassroomID null.Int `query:"classroom_id"`
	IsActive    *bool    `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.IDs == nil && qf.Roles == nil && !qf.SchoolID.Valid && !qf.ClassroomID.Valid && qf.IsActive == nil
}

// Match tells whether usr satisfies every set field of qf.
func (qf *QueryFilter) Match(usr User) bool {
	if qf.IDs != nil && !containsInt(qf.IDs, usr.ID) {
		return false
	}
	if qf.Roles != nil && !containsString(qf.Roles, usr.Role) {
		return false
	}
	if qf.SchoolID.Valid && usr.SchoolID != qf.SchoolID {
		return false
	}
	if qf.ClassroomID.Valid && usr.ClassroomID != qf.ClassroomID {
		return false
	}
	if qf.IsActive != nil && usr.IsActive != *qf.IsActive {
		return false
	}
	return true
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
