package repositories

import (
	"database/sql"
	"log"

	"salescrm/internal/models"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(cat *models.Category) error {
	const query = `
		INSERT INTO categories (name, color, icon, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRow(query, cat.Name, cat.Color, cat.Icon, cat.CreatedAt).Scan(&cat.ID)
}

func (r *CategoryRepository) GetByID(id int) (*models.Category, error) {
	const query = `SELECT id, name, color, icon, created_at FROM categories WHERE id=$1`
	c := &models.Category{}
	if err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) Update(cat *models.Category) error {
	const query = `UPDATE categories SET name=$1, color=$2, icon=$3 WHERE id=$4`
	_, err := r.db.Exec(query, cat.Name, cat.Color, cat.Icon, cat.ID)
	return err
}

func (r *CategoryRepository) Delete(id int) error {
	const query = `DELETE FROM categories WHERE id=$1`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *CategoryRepository) List() ([]*models.Category, error) {
	const query = `SELECT id, name, color, icon, created_at FROM categories ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Exists is the cheap id check used when imports and filters reference a
// category.
func (r *CategoryRepository) Exists(id int) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM categories WHERE id=$1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
