package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	echoapi "github.com/oiorda/orda/apps/api/echo"
	"github.com/oiorda/orda/core/user"
	"github.com/oiorda/orda/tests"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "Str0ng-pass", user.RoleStudent, 7, true)
	testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.kz", "Str0ng-pass", user.RoleStudent, 7, false)

	tests := []httpTest{
		{
			name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"this field is required","password":"this field is required"}`),
		},
		{
			name: "unknown email", body: []byte(`{"email":"nobody@test.kz","password":"Str0ng-pass"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: []byte(`{"email":"aruzhan@test.kz","password":"lol"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "inactive user", body: []byte(`{"email":"ndog@test.kz","password":"Str0ng-pass"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "success", body: []byte(`{"email":" ARUZHAN@test.kz ","password":"Str0ng-pass"}`)},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/login"
	}
	runHTTPTests(t, app, tests)
}

func Test_userApi_me(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.kz", "", user.RoleStudent, 7, false)

	runHTTPTests(t, app, []httpTest{
		{name: "auth required", path: "/v1/users/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "inactive user", path: "/v1/users/me", token: getToken(t, naughty),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "current user", path: "/v1/users/me", token: getToken(t, student), wantData: marchallObj(t, student)},
	})
}

func Test_userApi_roles(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.kz", "", user.RoleAdmin, 0, true)

	runHTTPTests(t, app, []httpTest{
		{
			name: "admin required", path: "/v1/users/roles", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "roles", path: "/v1/users/roles", token: getToken(t, admin), wantData: marchallObj(t, user.Roles)},
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)

	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.kz", "", user.RoleStudent, 7, false)
	student := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)

	now := time.Now()
	unrefreshableClaims := &echoapi.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(student.ID),
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		OrigIssuedAt: now.Add(-2 * conf.Server.JWTRefreshExpirationDelta).Unix(), // older than threshold
		Role:         student.Role,
	}
	unrefreshableToken, err := echoapi.GenerateToken(unrefreshableClaims, conf)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "inactive user not allowed", token: getToken(t, naughty),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "refresh period expired", token: unrefreshableToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "token refreshed", token: getToken(t, student)},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/token-refresh"
	}
	runHTTPTests(t, app, tests)

	t.Run("refreshed token keeps the original issue time", func(t *testing.T) {
		origIat := now.Add(-time.Hour).Unix()
		token, err := echoapi.GenerateToken(echoapi.GetUserClaims(student, conf, origIat), conf)
		require.NoError(t, err)

		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", token)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp echoapi.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		claims := new(echoapi.Claims)
		_, err = jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(conf.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, origIat, claims.OrigIssuedAt)
		assert.Equal(t, student.ID, claims.UserID())
	})
}

func Test_userApi_create(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.kz", "", user.RoleAdmin, 0, true)
	adminToken := getToken(t, admin)

	newUser := func(email, role string, classroomID int) []byte {
		nu := user.NewUser{
			Name:            "Dana",
			Email:           email,
			Role:            role,
			SchoolID:        null.IntFrom(1),
			Password:        "Qz7!maple-River",
			PasswordConfirm: "Qz7!maple-River",
		}
		if classroomID > 0 {
			nu.ClassroomID = null.IntFrom(classroomID)
			nu.Grade = null.IntFrom(9)
		}
		return marchallObj(t, nu)
	}

	tests := []httpTest{
		{name: "auth required", body: newUser("dana@test.kz", user.RoleStudent, 7), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", body: newUser("dana@test.kz", user.RoleStudent, 7), token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "student without classroom", body: newUser("dana@test.kz", user.RoleStudent, 0), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"classroom_id":"a student must belong to a classroom"}`),
		},
		{
			name: "email taken", body: newUser(" ARUZHAN@test.kz", user.RolePsych, 0), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: []byte(`{"email":"a user with this email already exists"}`),
		},
		{name: "unknown role", body: newUser("dana@test.kz", "teacher", 0), token: adminToken, wantCode: http.StatusBadRequest},
		{name: "created", body: newUser("Dana@test.kz", user.RoleStudent, 7), token: adminToken, wantCode: http.StatusCreated},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/users/register"
	}
	runHTTPTests(t, app, tests)

	dana, err := usrRepo.GetUserByEmail(context.Background(), "dana@test.kz")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, dana.Role)
	assert.Equal(t, null.IntFrom(7), dana.ClassroomID)
	assert.True(t, dana.IsActive)
	assert.NoError(t, dana.CheckPassword("Qz7!maple-River"))
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	aruzhan := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)
	dias := testutil.CreateUser(t, usrRepo, "Dias", "dias@test.kz", "", user.RoleStudent, 8, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.kz", "", user.RoleStudent, 7, false)
	psych := testutil.CreateUser(t, usrRepo, "Psych", "psych@test.kz", "", user.RolePsych, 0, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.kz", "", user.RoleAdmin, 0, true)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "admin required", path: "/v1/users", token: getToken(t, psych),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "all", path: "/v1/users", wantData: marchallObj(t, []user.User{aruzhan, dias, naughty, psych, admin})},
		{name: "by role", path: "/v1/users?role=STUDENT", wantData: marchallObj(t, []user.User{aruzhan, dias, naughty})},
		{name: "by roles", path: "/v1/users?role=psych&role=admin", wantData: marchallObj(t, []user.User{psych, admin})},
		{name: "by classroom", path: "/v1/users?role=student&classroom_id=7", wantData: marchallObj(t, []user.User{aruzhan, naughty})},
		{name: "active only", path: "/v1/users?classroom_id=7&is_active=true", wantData: marchallObj(t, []user.User{aruzhan})},
		{name: "by IDs", path: fmt.Sprintf("/v1/users?id=%d&id=%d", dias.ID, admin.ID), wantData: marchallObj(t, []user.User{dias, admin})},
		{name: "other school", path: "/v1/users?school_id=2", wantData: []byte(`[]`)},
		{name: "bad param", path: "/v1/users?classroom_id=lol", wantData: []byte(`[]`)},
	}
	for i := range tests {
		if tests[i].token == "" {
			tests[i].token = adminToken
		}
	}
	runHTTPTests(t, app, tests)
}

func Test_userApi_retrieve(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)
	other := testutil.CreateUser(t, usrRepo, "Dias", "dias@test.kz", "", user.RoleStudent, 7, true)
	psych := testutil.CreateUser(t, usrRepo, "Psych", "psych@test.kz", "", user.RolePsych, 0, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.kz", "", user.RoleAdmin, 0, true)

	studentPath := fmt.Sprintf("/v1/users/%d", student.ID)
	errNotFound := marchallObj(t, httpErr{Error: "not found"})
	runHTTPTests(t, app, []httpTest{
		{name: "auth required", path: studentPath, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "self", path: studentPath, token: getToken(t, student), wantData: marchallObj(t, student)},
		{name: "another student", path: studentPath, token: getToken(t, other), wantCode: http.StatusNotFound, wantData: errNotFound},
		{name: "psychologist", path: studentPath, token: getToken(t, psych), wantCode: http.StatusNotFound, wantData: errNotFound},
		{name: "admin", path: studentPath, token: getToken(t, admin), wantData: marchallObj(t, student)},
		{name: "unknown user", path: "/v1/users/999", token: getToken(t, admin), wantCode: http.StatusNotFound, wantData: errNotFound},
		{name: "bad ID", path: "/v1/users/lol", token: getToken(t, admin), wantCode: http.StatusNotFound, wantData: errNotFound},
	})
}
