package risk

// AttemptRef is a finished screening attempt of a learner.
type AttemptRef struct {
	ID     int
	UserID int
}

// Counts is the number of learners per risk level.
type Counts struct {
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
	None     int `json:"none"`
}

// LatestAttempts keeps, for each learner, the attempt with the greatest ID.
// Attempt IDs only grow, so the greatest one is the most recent.
func LatestAttempts(attempts []AttemptRef) map[int]AttemptRef {
	latest := make(map[int]AttemptRef)
	for _, a := range attempts {
		if cur, ok := latest[a.UserID]; !ok || a.ID > cur.ID {
			latest[a.UserID] = a
		}
	}
	return latest
}

// CountLevels counts userIDs by the level of their band; learners without one count as None.
func CountLevels(userIDs []int, bands map[int]*Band) Counts {
	var c Counts
	for _, id := range userIDs {
		band := bands[id]
		if band == nil {
			c.None++
			continue
		}
		switch band.Level {
		case High:
			c.High++
		case Moderate:
			c.Moderate++
		case Low:
			c.Low++
		default:
			c.None++
		}
	}
	return c
}

func (c Counts) Total() int {
	return c.High + c.Moderate + c.Low + c.None
}
