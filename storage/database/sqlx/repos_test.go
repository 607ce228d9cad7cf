package sqlxrepos_test

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/oiorda/orda/core"
	"github.com/oiorda/orda/storage/database"
	"github.com/oiorda/orda/storage/database/sqlx"
	"github.com/oiorda/orda/tests"
)

// prepareDB connects to the test database named by ORDA_TEST_DATABASE, migrates it and empties it.
func prepareDB(t *testing.T) *sqlx.DB {
	name := os.Getenv("ORDA_TEST_DATABASE")
	if name == "" {
		t.Skip("ORDA_TEST_DATABASE not set")
	}
	conf := core.NewConfig()
	conf.Database.Name = name

	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	_, err = db.Exec("TRUNCATE users, tests, test_questions, test_options, test_attempts, test_answers RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("prepareDB() failed: %v", err)
	}
	return db
}

func TestUserRepository(t *testing.T) {
	db := prepareDB(t)
	testutil.TestUserRepository(t, sqlxrepos.NewUserRepository(db))
}

func TestAssessmentRepository(t *testing.T) {
	db := prepareDB(t)
	testutil.TestAssessmentRepository(t, sqlxrepos.NewUserRepository(db), sqlxrepos.NewAssessmentRepository(db))
}
