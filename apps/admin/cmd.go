package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"
	"golang.org/x/term"

	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/i18n"
	"github.com/oiorda/orda/core/user"
	"github.com/oiorda/orda/storage/database"
)

var (
	gooseRunFunc     = database.Run     // mockable
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	usrSvc  *user.Service
	assmSvc *assessment.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version)")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME -role ROLE [-school ID] [-classroom ID] [-grade N] [-lang LANG] - create a user; the password is prompted next")
	fmt.Fprintln(cli.out, "  loadtest -file PATH - load an instrument from a JSON file")
	fmt.Fprintln(cli.out, "  score -attempt ID [-lang LANG] - print the interpretation of an attempt")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", user.RoleStudent, "One of: "+strings.Join(user.AllRoles, ", "))
	addUserSchool := addUserCmd.Int("school", 0, "The school ID.")
	addUserClassroom := addUserCmd.Int("classroom", 0, "The classroom ID (required for students).")
	addUserGrade := addUserCmd.Int("grade", 0, "The grade.")
	addUserLang := addUserCmd.String("lang", "", "The preferred language (ru, kk, en).")

	loadTestCmd := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	loadTestCmd.SetOutput(cli.out)
	loadTestFile := loadTestCmd.String("file", "", "The instrument JSON file.")

	scoreCmd := flag.NewFlagSet("score", flag.ContinueOnError)
	scoreCmd.SetOutput(cli.out)
	scoreAttempt := scoreCmd.Int("attempt", 0, "The attempt ID.")
	scoreLang := scoreCmd.String("lang", string(i18n.Default), "The language of the interpretation.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		nu := user.NewUser{
			Name:            *addUserName,
			Email:           *addUserEmail,
			Role:            *addUserRole,
			SchoolID:        optionalInt(*addUserSchool),
			ClassroomID:     optionalInt(*addUserClassroom),
			Grade:           optionalInt(*addUserGrade),
			Lang:            *addUserLang,
			Password:        string(pwd),
			PasswordConfirm: string(pwd),
		}
		return cli.addUser(nu)

	case "loadtest":
		if err := loadTestCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loadTestFile == "" {
			loadTestCmd.Usage()
			return errHelp
		}
		return cli.loadTest(*loadTestFile)

	case "score":
		if err := scoreCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *scoreAttempt <= 0 {
			scoreCmd.Usage()
			return errHelp
		}
		return cli.score(*scoreAttempt, i18n.Normalize(*scoreLang))

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) migrate(args []string) error {
	var db *sql.DB
	if cli.db != nil {
		db = cli.db.DB
	}
	return gooseRunFunc(args[0], db, args[1:]...)
}

func (cli *commandLine) addUser(nu user.NewUser) error {
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %d created: %s (%s)\n", usr.ID, usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) loadTest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nt assessment.NewTest
	if err = json.Unmarshal(data, &nt); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	test, err := cli.assmSvc.CreateTest(context.Background(), nt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "test %d loaded: %s (%d questions)\n", test.ID, test.Slug, len(nt.Questions))
	return nil
}

func (cli *commandLine) score(attemptID int, lang i18n.Lang) error {
	report, err := cli.assmSvc.Score(context.Background(), attemptID, lang)
	if err != nil {
		return err
	}
	res := report.Interpretation
	fmt.Fprintf(cli.out, "%s: %s\n", report.Test.Slug, res.Title)
	if res.Code != "" {
		fmt.Fprintf(cli.out, "code: %s\n", res.Code)
	}
	for _, b := range res.Bullets {
		fmt.Fprintf(cli.out, "- %s\n", b)
	}
	return nil
}

func optionalInt(v int) null.Int {
	if v == 0 {
		return null.Int{}
	}
	return null.IntFrom(v)
}
