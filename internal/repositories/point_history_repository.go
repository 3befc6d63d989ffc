package repositories

import (
	"database/sql"
	"log"
	"time"

	"salescrm/internal/models"
)

type PointHistoryRepository struct {
	db *sql.DB
}

func NewPointHistoryRepository(db *sql.DB) *PointHistoryRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &PointHistoryRepository{db: db}
}

func (r *PointHistoryRepository) Append(userID int, date time.Time, points int) error {
	const query = `INSERT INTO point_history (user_id, date, points) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(query, userID, date, points)
	return err
}

// ListSince returns one user's snapshots from the cutoff onward, oldest
// first.
func (r *PointHistoryRepository) ListSince(userID int, from time.Time) ([]models.PointSnapshot, error) {
	const query = `
		SELECT id, user_id, date, points
		FROM point_history
		WHERE user_id=$1 AND date >= $2
		ORDER BY date, id
	`
	rows, err := r.db.Query(query, userID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

// ListAllSince loads every user's windowed history in one query, grouped by
// user, each group in chronological order. One round-trip per leaderboard
// call instead of one per representative.
func (r *PointHistoryRepository) ListAllSince(from time.Time) (map[int][]models.PointSnapshot, error) {
	const query = `
		SELECT id, user_id, date, points
		FROM point_history
		WHERE date >= $1
		ORDER BY user_id, date, id
	`
	rows, err := r.db.Query(query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]models.PointSnapshot{}
	for rows.Next() {
		var s models.PointSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.Points); err != nil {
			return nil, err
		}
		out[s.UserID] = append(out[s.UserID], s)
	}
	return out, rows.Err()
}

// TotalsByUser sums all-time points per user (the leaderboard score).
func (r *PointHistoryRepository) TotalsByUser() (map[int]int, error) {
	const query = `SELECT user_id, COALESCE(SUM(points), 0) FROM point_history GROUP BY user_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var userID, total int
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, err
		}
		out[userID] = total
	}
	return out, rows.Err()
}

func collectSnapshots(rows *sql.Rows) ([]models.PointSnapshot, error) {
	var out []models.PointSnapshot
	for rows.Next() {
		var s models.PointSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.Points); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
