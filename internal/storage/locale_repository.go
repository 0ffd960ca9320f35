package storage

import (
	"context"

	"github.com/scheddesk/scheddesk/internal/model"
	"github.com/scheddesk/scheddesk/libs/db"
)

// LocaleRepository serves the read-only country and first-level-division
// lookups behind the customer form.
type LocaleRepository struct {
	pool *db.Pool
}

func NewLocaleRepository(pool *db.Pool) *LocaleRepository {
	return &LocaleRepository{pool: pool}
}

func (r *LocaleRepository) Countries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM countries ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	countries := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return countries, nil
}

func (r *LocaleRepository) DivisionsByCountry(ctx context.Context, countryID int) ([]model.Division, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, country_id
		FROM first_level_divisions
		WHERE country_id = $1
		ORDER BY name ASC
	`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	divisions := []model.Division{}
	for rows.Next() {
		var d model.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.CountryID); err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return divisions, nil
}
