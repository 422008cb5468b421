// Package `db` manages the job and auth database.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"golang.org/x/crypto/bcrypt"
)

// Represents a connection to the database. Used for database operations.
type Database struct {
	db *sql.DB
}

// A Job row mirrors one queued job, so the queue survives restarts.
type Job struct {
	ID        string
	Priority  int64
	Payload   string
	Submitted time.Time
}

// Opens a connection to the database, creating it and initializing the
// tables if necessary.
func Init(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("db: Couldn't connect to database (%w).", err)
	}

	_, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS jobs(
        id        TEXT PRIMARY KEY,
        priority  INTEGER NOT NULL,
        payload   TEXT NOT NULL,
        submitted INTEGER NOT NULL
    )`)
	if err != nil {
		return nil, fmt.Errorf("db: Couldn't create jobs table (%w).", err)
	}

	_, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS auth(
        username TEXT PRIMARY KEY,
        password TEXT NOT NULL,
        role     TEXT NOT NULL
    )`)
	if err != nil {
		return nil, fmt.Errorf("db: Couldn't create auth table (%w).", err)
	}

	return &Database{db: db}, nil
}

// Saves a queued job.
func (d *Database) SaveJob(job Job) error {
	_, err := d.db.Exec(`
    INSERT OR REPLACE INTO jobs
        (id, priority, payload, submitted)
    VALUES
        (?, ?, ?, ?)`,
		job.ID, job.Priority, job.Payload, job.Submitted.Unix())
	if err != nil {
		return fmt.Errorf("db: Couldn't save job (%w).", err)
	}
	return nil
}

// Updates a queued job's priority.
func (d *Database) SetJobPriority(id string, priority int64) error {
	_, err := d.db.Exec(`
    UPDATE jobs
    SET priority = ?
    WHERE id = ?`,
		priority, id)
	if err != nil {
		return fmt.Errorf("db: Couldn't update job priority (%w).", err)
	}
	return nil
}

// Removes a job row (taken, cancelled or drained).
func (d *Database) RemoveJob(id string) error {
	if _, err := d.db.Exec("DELETE FROM jobs WHERE id = ?", id); err != nil {
		return fmt.Errorf("db: Couldn't remove job (%w).", err)
	}
	return nil
}

// Loads every stored job, e.g. to rebuild the queue after a restart.
func (d *Database) LoadJobs() ([]Job, error) {
	rows, err := d.db.Query("SELECT id, priority, payload, submitted FROM jobs")
	if err != nil {
		return nil, fmt.Errorf("db: Couldn't query jobs (%w).", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		var submitted int64
		if err := rows.Scan(&job.ID, &job.Priority, &job.Payload, &submitted); err != nil {
			return jobs, fmt.Errorf("db: Error scanning job row (%w).", err)
		}
		job.Submitted = time.Unix(submitted, 0)
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Removes job rows older than the passed retention period.
func (d *Database) PruneJobs(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := d.db.Exec("DELETE FROM jobs WHERE submitted < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("db: Couldn't prune jobs (%w).", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Adds a new user that can authenticate to the passed role.
func (d *Database) AddAuth(username string, password string, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("db: Error hashing password (%w).", err)
	}
	_, err = d.db.Exec(`
    INSERT INTO auth
        (username, password, role)
    VALUES
        (?, ?, ?)`,
		username, string(hash), role)
	if err != nil {
		return fmt.Errorf("db: Couldn't add user (%w).", err)
	}
	return nil
}

// Checks whether a given username and password authenticate to a user.
func (d *Database) CheckAuth(username string, password string) (ok bool, role string, err error) {
	row := d.db.QueryRow("SELECT password, role FROM auth WHERE username = ?", username)
	var hash string
	if err := row.Scan(&hash, &role); err != nil {
		if err == sql.ErrNoRows {
			// user doesn't exist
			return false, "", nil
		}
		return false, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, "", nil
	}
	return true, role, nil
}

// Removes a user from the auth table.
func (d *Database) RemoveAuth(username string) error {
	if _, err := d.db.Exec("DELETE FROM auth WHERE username = ?", username); err != nil {
		return fmt.Errorf("db: Couldn't remove user (%w).", err)
	}
	return nil
}

// Closes the database connection.
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("db: Error closing database (%w).", err)
	}
	return nil
}
