package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/user"
	"github.com/oiorda/orda/storage/database/inmem"
	"github.com/oiorda/orda/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *user.Service {
	usrRepo = inmemdb.NewUserRepository(inmemdb.Open())
	return user.NewService(usrRepo)
}

func validNewUser() user.NewUser {
	return user.NewUser{
		Name:            "Dana Bekova",
		Email:           "dana@test.kz",
		Role:            user.RoleStudent,
		SchoolID:        null.IntFrom(1),
		ClassroomID:     null.IntFrom(3),
		Grade:           null.IntFrom(9),
		Password:        "Qz7!maple-River",
		PasswordConfirm: "Qz7!maple-River",
	}
}

func TestNewUser_Validate(t *testing.T) {
	svc := setup(t)
	testutil.CreateUser(t, usrRepo, "Taken", "taken@test.kz", "", user.RolePsych, 0, true)

	tests := []struct {
		name      string
		update    func(nu *user.NewUser)
		wantField string
		wantTag   string
	}{
		{name: "blank name", update: func(nu *user.NewUser) { nu.Name = "   " }, wantField: "name", wantTag: "required"},
		{name: "invalid email", update: func(nu *user.NewUser) { nu.Email = "dana" }, wantField: "email", wantTag: "email"},
		{name: "unknown role", update: func(nu *user.NewUser) { nu.Role = "teacher" }, wantField: "role", wantTag: "allroles"},
		{name: "unsupported language", update: func(nu *user.NewUser) { nu.Lang = "de" }, wantField: "lang", wantTag: "lang"},
		{name: "password mismatch", update: func(nu *user.NewUser) { nu.PasswordConfirm = "Qz7!maple-Rive" }, wantField: "password_confirm", wantTag: "eqfield"},
		{name: "grade too high", update: func(nu *user.NewUser) { nu.Grade = null.IntFrom(12) }, wantField: "grade", wantTag: "grade"},
		{name: "grade too low", update: func(nu *user.NewUser) { nu.Grade = null.IntFrom(6) }, wantField: "grade", wantTag: "grade"},
		{name: "student without classroom", update: func(nu *user.NewUser) { nu.ClassroomID = null.Int{} }, wantField: "classroom_id", wantTag: "classroom"},
		{name: "short password", update: setPassword("Qz7!"), wantField: "password", wantTag: "pwdminlen"},
		{name: "password with space", update: setPassword("Qz7! maple-River"), wantField: "password", wantTag: "pwdnospace"},
		{name: "numeric password", update: setPassword("73920418"), wantField: "password", wantTag: "pwdnotallnum"},
		{name: "simple password", update: setPassword("qz7!maple-river"), wantField: "password", wantTag: "pwdcplx"},
		{name: "password like the name", update: setPassword("Dana.Bekova1"), wantField: "password", wantTag: "pwdtoosim"},
		{name: "common password", update: setPassword("P@ssw0rd"), wantField: "password", wantTag: "pwdnocommon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := validNewUser()
			tt.update(&nu)
			err := nu.Validate(svc)
			verrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "error = %v", err)
			require.Len(t, verrs, 1, "errors = %v", verrs)
			assert.Equal(t, tt.wantField, verrs[0].Field())
			assert.Equal(t, tt.wantTag, verrs[0].Tag())
		})
	}

	t.Run("email taken", func(t *testing.T) {
		nu := validNewUser()
		nu.Email = " TAKEN@test.kz"
		verr, ok := nu.Validate(svc).(*core.ValidationError)
		require.True(t, ok)
		assert.Equal(t, user.ErrEmailExists, verr.Err)
		assert.Equal(t, "email", verr.Fields[0].Field)
	})

	t.Run("staff need no classroom", func(t *testing.T) {
		nu := validNewUser()
		nu.Role = " PSYCH "
		nu.ClassroomID = null.Int{}
		nu.Grade = null.Int{}
		require.NoError(t, nu.Validate(svc))
		assert.Equal(t, user.RolePsych, nu.Role)
	})
}

func setPassword(pwd string) func(nu *user.NewUser) {
	return func(nu *user.NewUser) {
		nu.Password = pwd
		nu.PasswordConfirm = pwd
	}
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	nu := validNewUser()
	require.NoError(t, nu.Validate(svc))
	usr, err := svc.Create(ctx, nu)
	require.NoError(t, err)
	assert.NotZero(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.Equal(t, "ru", usr.Lang, "default language")
	assert.NoError(t, usr.CheckPassword(nu.Password))

	got, err := svc.GetByEmail(ctx, " DANA@test.kz ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.GetByID(ctx, 999)
	assert.Equal(t, user.ErrNotFound, err)
}

func TestService_Authenticate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	active := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "Str0ng-pass", user.RoleStudent, 7, true)
	testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.kz", "Str0ng-pass", user.RoleStudent, 7, false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "nobody@test.kz", pwd: "Str0ng-pass", wantErr: user.ErrInvalidCredentials},
		{name: "wrong password", email: "aruzhan@test.kz", pwd: "str0ng-pass", wantErr: user.ErrInvalidCredentials},
		{name: "inactive", email: "ndog@test.kz", pwd: "Str0ng-pass", wantErr: user.ErrAccountDeactivated},
		{name: "success", email: " Aruzhan@test.kz", pwd: "Str0ng-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.email, tt.pwd)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr == nil {
				assert.Equal(t, active.ID, usr.ID)
				assert.True(t, usr.LastLogin.Valid)
			}
		})
	}

	stored, err := svc.GetByID(ctx, active.ID)
	require.NoError(t, err)
	assert.True(t, stored.LastLogin.Valid, "last login recorded")
}

func TestService_StudentsInClassroom(t *testing.T) {
	svc := setup(t)

	a := testutil.CreateUser(t, usrRepo, "A", "a@test.kz", "", user.RoleStudent, 7, true)
	b := testutil.CreateUser(t, usrRepo, "B", "b@test.kz", "", user.RoleStudent, 7, true)
	testutil.CreateUser(t, usrRepo, "C", "c@test.kz", "", user.RoleStudent, 7, false)
	testutil.CreateUser(t, usrRepo, "D", "d@test.kz", "", user.RoleStudent, 8, true)
	testutil.CreateUser(t, usrRepo, "Psy", "psy@test.kz", "", user.RolePsych, 7, true)

	students, err := svc.StudentsInClassroom(context.Background(), 7)
	require.NoError(t, err)
	ids := make([]int, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []int{a.ID, b.ID}, ids)
}

func TestUser_CanSee(t *testing.T) {
	student := user.User{ID: 1, Role: user.RoleStudent, SchoolID: null.IntFrom(1)}
	classmate := user.User{ID: 2, Role: user.RoleStudent, SchoolID: null.IntFrom(1)}
	farStudent := user.User{ID: 3, Role: user.RoleStudent, SchoolID: null.IntFrom(2)}
	psych := user.User{ID: 4, Role: user.RolePsych, SchoolID: null.IntFrom(1)}
	districtPsych := user.User{ID: 5, Role: user.RolePsych}
	admin := user.User{ID: 6, Role: user.RoleAdmin, SchoolID: null.IntFrom(2)}

	tests := []struct {
		name   string
		viewer user.User
		other  user.User
		want   bool
	}{
		{name: "self", viewer: student, other: student, want: true},
		{name: "classmate", viewer: student, other: classmate},
		{name: "psychologist, same school", viewer: psych, other: classmate, want: true},
		{name: "psychologist, other school", viewer: psych, other: farStudent},
		{name: "psychologist without school", viewer: districtPsych, other: farStudent, want: true},
		{name: "admin", viewer: admin, other: student, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.viewer.CanSee(tt.other))
		})
	}
}
