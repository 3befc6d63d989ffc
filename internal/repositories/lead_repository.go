package repositories

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"salescrm/internal/models"
)

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &LeadRepository{db: db}
}

const leadColumns = `id, phone, category_id, status, priority, value, assigned_to, source, created_at, last_contact`

func scanLead(row interface{ Scan(...interface{}) error }) (*models.Lead, error) {
	l := &models.Lead{}
	var (
		assignedTo  sql.NullInt64
		lastContact sql.NullTime
	)
	if err := row.Scan(&l.ID, &l.Phone, &l.CategoryID, &l.Status, &l.Priority, &l.Value,
		&assignedTo, &l.Source, &l.CreatedAt, &lastContact); err != nil {
		return nil, err
	}
	if assignedTo.Valid {
		v := int(assignedTo.Int64)
		l.AssignedTo = &v
	}
	if lastContact.Valid {
		t := lastContact.Time
		l.LastContact = &t
	}
	return l, nil
}

func (r *LeadRepository) Create(lead *models.Lead) error {
	const query = `
		INSERT INTO leads (phone, category_id, status, priority, value, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRow(query,
		lead.Phone, lead.CategoryID, lead.Status, lead.Priority, lead.Value, lead.Source, lead.CreatedAt,
	).Scan(&lead.ID)
}

func (r *LeadRepository) GetByID(id int) (*models.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	return scanLead(r.db.QueryRow(query, id))
}

func (r *LeadRepository) Update(lead *models.Lead) error {
	const query = `
		UPDATE leads
		SET category_id=$1, status=$2, priority=$3, value=$4, last_contact=$5
		WHERE id=$6
	`
	_, err := r.db.Exec(query, lead.CategoryID, lead.Status, lead.Priority, lead.Value, lead.LastContact, lead.ID)
	return err
}

func (r *LeadRepository) UpdateStatus(id int, status models.LeadStatus) error {
	const query = `UPDATE leads SET status=$1, last_contact=$2 WHERE id=$3`
	_, err := r.db.Exec(query, status, time.Now(), id)
	return err
}

func (r *LeadRepository) Delete(id int) error {
	const query = `DELETE FROM leads WHERE id=$1`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *LeadRepository) FilterLeads(status string, categoryID, assignedTo int, sortBy, order string, limit, offset int) ([]*models.Lead, error) {
	if sortBy == "" {
		sortBy = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	allowed := map[string]bool{"created_at": true, "status": true, "priority": true, "value": true}
	if !allowed[sortBy] {
		sortBy = "created_at"
	}

	query := "SELECT " + leadColumns + " FROM leads WHERE 1=1"
	args := []interface{}{}
	i := 1

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", i)
		args = append(args, status)
		i++
	}
	if categoryID > 0 {
		query += fmt.Sprintf(" AND category_id = $%d", i)
		args = append(args, categoryID)
		i++
	}
	if assignedTo > 0 {
		query += fmt.Sprintf(" AND assigned_to = $%d", i)
		args = append(args, assignedTo)
		i++
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortBy, order, i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *LeadRepository) ListByAssignee(assigneeID, limit, offset int) ([]*models.Lead, error) {
	const query = `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE assigned_to = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(query, assigneeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func collectLeads(rows *sql.Rows) ([]*models.Lead, error) {
	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// FindExistingPhones answers "which of these keys are already taken" with a
// single round-trip, so bulk imports stay linear in store accesses.
func (r *LeadRepository) FindExistingPhones(phones []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(phones))
	if len(phones) == 0 {
		return existing, nil
	}

	rows, err := r.db.Query(`SELECT phone FROM leads WHERE phone = ANY($1)`, pq.Array(phones))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		existing[p] = true
	}
	return existing, rows.Err()
}

// InsertBulk creates the given leads inside one transaction. A row whose
// phone key is already taken (a concurrent import won the race since the
// existence check) is skipped via ON CONFLICT and reported in lateDuplicates
// rather than failing the batch.
func (r *LeadRepository) InsertBulk(leads []*models.Lead) (created int, lateDuplicates []string, err error) {
	if len(leads) == 0 {
		return 0, nil, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO leads (phone, category_id, status, priority, value, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone) DO NOTHING
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, nil, err
	}
	defer stmt.Close()

	for _, l := range leads {
		res, execErr := stmt.Exec(l.Phone, l.CategoryID, l.Status, l.Priority, l.Value, l.Source, l.CreatedAt)
		if execErr != nil {
			return 0, nil, execErr
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			lateDuplicates = append(lateDuplicates, l.Phone)
			continue
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	return created, lateDuplicates, nil
}

func (r *LeadRepository) CountUnassigned(categoryID int) (int, error) {
	var count int
	var err error
	if categoryID > 0 {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE assigned_to IS NULL AND category_id=$1`, categoryID).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE assigned_to IS NULL`).Scan(&count)
	}
	return count, err
}

// ClaimUnassigned moves up to count leads from the unassigned pool to
// assigneeID in one transaction, oldest created_at first. Row locks with
// SKIP LOCKED make concurrent claims pick disjoint rows; a lead leaves the
// pool exactly once. When fewer than count rows can be claimed nothing is
// assigned and the number actually available is returned.
func (r *LeadRepository) ClaimUnassigned(assigneeID, count, categoryID int) (claimed []int, available int, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	query := `
		SELECT id FROM leads
		WHERE assigned_to IS NULL
	`
	args := []interface{}{}
	if categoryID > 0 {
		query += ` AND category_id = $1`
		args = append(args, categoryID)
	}
	query += fmt.Sprintf(` ORDER BY created_at, id LIMIT $%d FOR UPDATE SKIP LOCKED`, len(args)+1)
	args = append(args, count)

	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) < count {
		// all-or-nothing: rollback via defer, report what was there
		return nil, len(ids), nil
	}

	res, err := tx.Exec(
		`UPDATE leads SET assigned_to=$1 WHERE id = ANY($2) AND assigned_to IS NULL`,
		assigneeID, pq.Array(ids),
	)
	if err != nil {
		return nil, 0, err
	}
	if n, _ := res.RowsAffected(); int(n) != len(ids) {
		return nil, 0, fmt.Errorf("claimed %d of %d locked leads", n, len(ids))
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return ids, len(ids), nil
}

// CountByAssignee returns assigned-lead totals grouped by representative.
func (r *LeadRepository) CountByAssignee() (map[int]int, error) {
	const query = `
		SELECT assigned_to, COUNT(*)
		FROM leads
		WHERE assigned_to IS NOT NULL
		GROUP BY assigned_to
	`
	return r.groupedCounts(query)
}

// CountByAssigneeWithStatuses restricts CountByAssignee to the given
// statuses (the configured closing set, typically).
func (r *LeadRepository) CountByAssigneeWithStatuses(statuses []models.LeadStatus) (map[int]int, error) {
	const query = `
		SELECT assigned_to, COUNT(*)
		FROM leads
		WHERE assigned_to IS NOT NULL AND status = ANY($1)
		GROUP BY assigned_to
	`
	return r.groupedCounts(query, pq.Array(statusStrings(statuses)))
}

// CountByCategoryAssigned counts actively worked leads per category
// (unassigned pool excluded).
func (r *LeadRepository) CountByCategoryAssigned() (map[int]int, error) {
	const query = `
		SELECT category_id, COUNT(*)
		FROM leads
		WHERE assigned_to IS NOT NULL
		GROUP BY category_id
	`
	return r.groupedCounts(query)
}

func (r *LeadRepository) CountByCategoryWithStatuses(statuses []models.LeadStatus) (map[int]int, error) {
	const query = `
		SELECT category_id, COUNT(*)
		FROM leads
		WHERE assigned_to IS NOT NULL AND status = ANY($1)
		GROUP BY category_id
	`
	return r.groupedCounts(query, pq.Array(statusStrings(statuses)))
}

// CountByCategory counts all leads per category, used for category listings.
func (r *LeadRepository) CountByCategory() (map[int]int, error) {
	const query = `
		SELECT category_id, COUNT(*)
		FROM leads
		GROUP BY category_id
	`
	return r.groupedCounts(query)
}

func (r *LeadRepository) groupedCounts(query string, args ...interface{}) (map[int]int, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]int{}
	for rows.Next() {
		var key, count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		out[key] = count
	}
	return out, rows.Err()
}

func statusStrings(statuses []models.LeadStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
