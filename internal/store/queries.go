package store

// Run queries
const (
	queryInsertRun = `
		INSERT INTO runs (id, state, concurrency, total, fulfilled, rejected, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryUpdateRun = `
		UPDATE runs SET
			state = ?,
			total = ?,
			fulfilled = ?,
			rejected = ?,
			finished_at = ?
		WHERE id = ?`
)

// Result queries
const (
	queryInsertResult = `
		INSERT INTO results (run_id, job_id, job_type, status, value, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

var (
	runColumns = []string{
		"id", "state", "concurrency", "total", "fulfilled", "rejected", "created_at", "finished_at",
	}

	resultColumns = []string{
		"job_id", "job_type", "status", "value", "error", "started_at", "finished_at",
	}
)
