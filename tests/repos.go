package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/user"
)

// TestUserRepository checks the behaviour every user.Repository shares. repo must be empty.
func TestUserRepository(t *testing.T, repo user.Repository) {
	ctx := context.Background()

	aruzhan := CreateUser(t, repo, "Aruzhan", "aruzhan@test.kz", "Str0ng-pass", user.RoleStudent, 7, true)
	timur := CreateUser(t, repo, "Timur", "timur@test.kz", "", user.RoleStudent, 8, false)
	psych := CreateUser(t, repo, "Psy", "psy@test.kz", "", user.RolePsych, 0, true)
	require.NotZero(t, aruzhan.ID)
	require.NotEqual(t, aruzhan.ID, timur.ID)

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetUserByID(ctx, aruzhan.ID)
		require.NoError(t, err)
		assert.Equal(t, aruzhan.Email, got.Email)
		assert.Equal(t, null.IntFrom(7), got.ClassroomID)
		assert.NoError(t, got.CheckPassword("Str0ng-pass"))

		got, err = repo.GetUserByEmail(ctx, "psy@test.kz")
		require.NoError(t, err)
		assert.Equal(t, psych.ID, got.ID)
		assert.False(t, got.ClassroomID.Valid)

		_, err = repo.GetUserByID(ctx, 99999)
		assert.Equal(t, user.ErrNotFound, err)
		_, err = repo.GetUserByEmail(ctx, "nobody@test.kz")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("email uniqueness", func(t *testing.T) {
		assert.Equal(t, user.ErrEmailExists, repo.CheckEmailUniqueness(ctx, "aruzhan@test.kz"))
		assert.NoError(t, repo.CheckEmailUniqueness(ctx, "aruzhan@test.kz", aruzhan))
		assert.NoError(t, repo.CheckEmailUniqueness(ctx, "new@test.kz"))
	})

	t.Run("filter", func(t *testing.T) {
		active := true
		tests := []struct {
			name    string
			filter  user.QueryFilter
			wantIDs []int
		}{
			{name: "no filter", wantIDs: []int{aruzhan.ID, timur.ID, psych.ID}},
			{name: "ids", filter: user.QueryFilter{IDs: []int{timur.ID, psych.ID}}, wantIDs: []int{timur.ID, psych.ID}},
			{name: "roles", filter: user.QueryFilter{Roles: []string{user.RoleStudent}}, wantIDs: []int{aruzhan.ID, timur.ID}},
			{name: "classroom", filter: user.QueryFilter{ClassroomID: null.IntFrom(8)}, wantIDs: []int{timur.ID}},
			{name: "school", filter: user.QueryFilter{SchoolID: null.IntFrom(2)}},
			{name: "active students", filter: user.QueryFilter{Roles: []string{user.RoleStudent}, IsActive: &active}, wantIDs: []int{aruzhan.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				users, err := repo.FilterUsers(ctx, tt.filter)
				require.NoError(t, err)
				ids := make([]int, 0, len(users))
				for _, u := range users {
					ids = append(ids, u.ID)
				}
				assert.ElementsMatch(t, tt.wantIDs, ids)
			})
		}
	})

	t.Run("last login", func(t *testing.T) {
		require.NoError(t, repo.SetLastLogin(ctx, aruzhan.ID, time.Now().UTC()))
		got, err := repo.GetUserByID(ctx, aruzhan.ID)
		require.NoError(t, err)
		assert.True(t, got.LastLogin.Valid)
		assert.Equal(t, user.ErrNotFound, repo.SetLastLogin(ctx, 99999, time.Now().UTC()))
	})
}

// TestAssessmentRepository checks the behaviour every assessment.Repository shares.
// Both repositories must be empty and share the same storage.
func TestAssessmentRepository(t *testing.T, usrRepo user.Repository, repo assessment.Repository) {
	ctx := context.Background()
	now := time.Now().UTC()

	student := CreateUser(t, usrRepo, "Aruzhan", "aruzhan@test.kz", "", user.RoleStudent, 7, true)
	other := CreateUser(t, usrRepo, "Timur", "timur@test.kz", "", user.RoleStudent, 7, true)

	test, err := repo.CreateTest(ctx,
		assessment.Test{Slug: "mood", Title: "Mood", IsActive: true, CreatedAt: now},
		[]assessment.Question{
			{Order: 2, Text: "Second", Type: assessment.QuestionSingle, Options: []assessment.Option{
				{Order: 2, Text: "b", Value: null.StringFrom("B=1")},
				{Order: 1, Text: "a", Value: null.StringFrom("A=1")},
			}},
			{Order: 1, Text: "First", Type: assessment.QuestionSingle, Options: []assessment.Option{
				{Order: 1, Text: "yes", Value: null.StringFrom("1")},
				{Order: 2, Text: "no"},
			}},
		},
	)
	require.NoError(t, err)
	require.NotZero(t, test.ID)
	_, err = repo.CreateTest(ctx, assessment.Test{Slug: "old", Title: "Old", CreatedAt: now}, nil)
	require.NoError(t, err)

	var questions []assessment.Question
	t.Run("tests and questions", func(t *testing.T) {
		got, err := repo.GetTestBySlug(ctx, "mood")
		require.NoError(t, err)
		assert.Equal(t, test.ID, got.ID)
		got, err = repo.GetTestByID(ctx, test.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mood", got.Title)

		_, err = repo.GetTestBySlug(ctx, "nope")
		assert.Equal(t, assessment.ErrTestNotFound, err)
		_, err = repo.GetTestByID(ctx, 99999)
		assert.Equal(t, assessment.ErrTestNotFound, err)

		all, err := repo.QueryTests(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		active, err := repo.QueryTests(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, "mood", active[0].Slug)

		questions, err = repo.QueryQuestions(ctx, test.ID)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.Equal(t, "First", questions[0].Text)
		assert.Equal(t, test.ID, questions[0].TestID)
		require.Len(t, questions[1].Options, 2)
		assert.Equal(t, "a", questions[1].Options[0].Text)
		assert.Equal(t, questions[1].ID, questions[1].Options[0].QuestionID)
		assert.False(t, questions[0].Options[1].Value.Valid)
	})
	require.Len(t, questions, 2)

	newAttempt := func(userID int) assessment.Attempt {
		a, err := repo.CreateAttempt(ctx, assessment.Attempt{TestID: test.ID, UserID: userID, Status: assessment.StatusInProgress, StartedAt: now})
		require.NoError(t, err)
		return a
	}
	first := newAttempt(student.ID)
	second := newAttempt(student.ID)
	third := newAttempt(other.ID)

	t.Run("attempts", func(t *testing.T) {
		open, err := repo.GetOpenAttempt(ctx, student.ID, test.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, open.ID, "latest open attempt")

		finished, err := repo.FinishAttempt(ctx, first.ID, now)
		require.NoError(t, err)
		assert.Equal(t, assessment.StatusSubmitted, finished.Status)
		assert.True(t, finished.FinishedAt.Valid)
		_, err = repo.FinishAttempt(ctx, first.ID, now.Add(time.Minute))
		assert.Equal(t, assessment.ErrAttemptClosed, err, "finished once")
		stored, err := repo.GetAttempt(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, finished.FinishedAt, stored.FinishedAt, "first finish kept")
		_, err = repo.FinishAttempt(ctx, 99999, now)
		assert.Equal(t, assessment.ErrAttemptNotFound, err)
		_, err = repo.GetAttempt(ctx, 99999)
		assert.Equal(t, assessment.ErrAttemptNotFound, err)
		_, err = repo.GetOpenAttempt(ctx, other.ID, 99999)
		assert.Equal(t, assessment.ErrAttemptNotFound, err)

		_, err = repo.FinishAttempt(ctx, third.ID, now)
		require.NoError(t, err)

		tests := []struct {
			name    string
			filter  assessment.AttemptFilter
			wantIDs []int
		}{
			{name: "all", wantIDs: []int{third.ID, second.ID, first.ID}},
			{name: "user", filter: assessment.AttemptFilter{UserIDs: []int{student.ID}}, wantIDs: []int{second.ID, first.ID}},
			{name: "no users", filter: assessment.AttemptFilter{UserIDs: []int{}}},
			{name: "finished", filter: assessment.AttemptFilter{FinishedOnly: true}, wantIDs: []int{third.ID, first.ID}},
			{name: "limit", filter: assessment.AttemptFilter{TestID: test.ID, Limit: 1}, wantIDs: []int{third.ID}},
			{name: "other test", filter: assessment.AttemptFilter{TestID: 99999}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				attempts, err := repo.FilterAttempts(ctx, tt.filter)
				require.NoError(t, err)
				ids := make([]int, 0, len(attempts))
				for _, a := range attempts {
					ids = append(ids, a.ID)
				}
				assert.Equal(t, len(tt.wantIDs), len(ids))
				if len(tt.wantIDs) > 0 {
					assert.Equal(t, tt.wantIDs, ids, "most recent first")
				}
			})
		}
	})

	t.Run("answers", func(t *testing.T) {
		q1, q2 := questions[0], questions[1]
		save := func(q assessment.Question, optIdx int) {
			require.NoError(t, repo.SaveAnswer(ctx, assessment.Answer{
				AttemptID: second.ID, QuestionID: q.ID, OptionID: q.Options[optIdx].ID, AnsweredAt: now,
			}))
		}
		save(q2, 0)
		save(q1, 0)
		save(q1, 1) // replaces

		answers, err := repo.QueryAnswers(ctx, second.ID)
		require.NoError(t, err)
		require.Len(t, answers, 2)
		chosen := assessment.AnswerMap(answers)
		assert.Equal(t, q1.Options[1].ID, chosen[q1.ID])
		assert.Equal(t, q2.Options[0].ID, chosen[q2.ID])

		answers, err = repo.QueryAnswers(ctx, first.ID)
		require.NoError(t, err)
		assert.Empty(t, answers)
	})
}
