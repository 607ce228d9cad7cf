package testutil

import (
	"context"
	"io"
	"log"
	"strconv"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/user"
	"github.com/oiorda/orda/services/logger"
)

// NewLogger returns a silent logger.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	classroomID int,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		SchoolID:  null.IntFrom(1),
		Lang:      "ru",
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if classroomID > 0 {
		usr.ClassroomID = null.IntFrom(classroomID)
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateInstrument saves a test whose questions carry the given option values, one slice per question.
func CreateInstrument(t *testing.T, svc *assessment.Service, slug string, confidential bool, values ...[]string) assessment.Test {
	nt := assessment.NewTest{
		Slug:         slug,
		Title:        "Test " + slug,
		Confidential: confidential,
	}
	for _, qValues := range values {
		nq := assessment.NewQuestion{Text: "Question"}
		for j, v := range qValues {
			nq.Options = append(nq.Options, assessment.NewOption{Text: "Option " + strconv.Itoa(j+1), Value: null.StringFrom(v)})
		}
		nt.Questions = append(nt.Questions, nq)
	}
	test, err := svc.CreateTest(context.Background(), nt)
	if err != nil {
		t.Fatalf("CreateInstrument() failed: %v", err)
	}
	return test
}

// TakeTest starts an attempt, picks the option at index choices[i] for the i-th question and finishes it.
func TakeTest(t *testing.T, svc *assessment.Service, userID int, slug string, choices ...int) assessment.Attempt {
	ctx := context.Background()
	attempt, err := svc.Start(ctx, userID, slug)
	if err != nil {
		t.Fatalf("TakeTest() failed: %v", err)
	}
	_, questions, err := svc.GetTest(ctx, slug)
	if err != nil {
		t.Fatalf("TakeTest() failed: %v", err)
	}
	for i, choice := range choices {
		q := questions[i]
		req := assessment.AnswerRequest{QuestionID: q.ID, OptionID: q.Options[choice].ID}
		if err = svc.Answer(ctx, userID, attempt.ID, req); err != nil {
			t.Fatalf("TakeTest() failed: %v", err)
		}
	}
	attempt, err = svc.Finish(ctx, userID, attempt.ID)
	if err != nil {
		t.Fatalf("TakeTest() failed: %v", err)
	}
	return attempt
}
