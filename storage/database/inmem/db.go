// Package inmemdb keeps the application data in memory. It backs tests and the "memory" database engine.
package inmemdb

import (
	"sync"

	"github.com/oiorda/orda/core/assessment"
	"github.com/oiorda/orda/core/user"
)

type (
	DB struct {
		user       *userTable
		assessment *assessmentTables
	}

	userTable struct {
		table map[int]*user.User
		pk    int
		mutex sync.RWMutex
	}

	answerKey struct {
		attemptID, questionID int
	}

	assessmentTables struct {
		tests     map[int]*assessment.Test
		questions map[int][]assessment.Question // {testID: questions}
		attempts  map[int]*assessment.Attempt
		answers   map[answerKey]assessment.Answer
		testPK    int
		questPK   int
		optionPK  int
		attemptPK int
		mutex     sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[int]*user.User)},
		assessment: &assessmentTables{
			tests:     make(map[int]*assessment.Test),
			questions: make(map[int][]assessment.Question),
			attempts:  make(map[int]*assessment.Attempt),
			answers:   make(map[answerKey]assessment.Answer),
		},
	}
}
