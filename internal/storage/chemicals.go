package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sciforge/chemlab/internal/model"
)

const chemicalColumns = `id, name, formula, color, state, danger_level, description, molar_mass,
	density, boiling_point, melting_point, ph, reacts_with, category, hazards, concentration, created_at`

// CreateChemical inserts a new chemical library entry and returns it.
func (db *DB) CreateChemical(ctx context.Context, req model.CreateChemicalRequest) (model.Chemical, error) {
	chem := model.Chemical{
		ID:            uuid.New(),
		Name:          req.Name,
		Formula:       req.Formula,
		Color:         req.Color,
		State:         req.State,
		DangerLevel:   req.DangerLevel,
		Description:   req.Description,
		MolarMass:     req.MolarMass,
		Density:       req.Density,
		BoilingPoint:  req.BoilingPoint,
		MeltingPoint:  req.MeltingPoint,
		PH:            req.PH,
		ReactsWith:    req.ReactsWith,
		Category:      req.Category,
		Hazards:       req.Hazards,
		Concentration: req.Concentration,
		CreatedAt:     time.Now().UTC(),
	}
	if chem.ReactsWith == nil {
		chem.ReactsWith = []string{}
	}
	if chem.Hazards == nil {
		chem.Hazards = []string{}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO chemicals (`+chemicalColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		chem.ID, chem.Name, chem.Formula, chem.Color, string(chem.State), string(chem.DangerLevel),
		chem.Description, chem.MolarMass, chem.Density, chem.BoilingPoint, chem.MeltingPoint,
		chem.PH, chem.ReactsWith, string(chem.Category), chem.Hazards, chem.Concentration, chem.CreatedAt,
	)
	if err != nil {
		return model.Chemical{}, fmt.Errorf("storage: create chemical: %w", err)
	}
	return chem, nil
}

// GetChemical retrieves a chemical by ID.
func (db *DB) GetChemical(ctx context.Context, id uuid.UUID) (model.Chemical, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+chemicalColumns+` FROM chemicals WHERE id = $1`, id)
	chem, err := scanChemical(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Chemical{}, ErrNotFound
		}
		return model.Chemical{}, fmt.Errorf("storage: get chemical: %w", err)
	}
	return chem, nil
}

// ListChemicals returns library chemicals ordered by name, optionally
// filtered by category and by a case-insensitive name/formula search term.
func (db *DB) ListChemicals(ctx context.Context, category model.ChemicalCategory, search string, limit, offset int) ([]model.Chemical, int, error) {
	if limit <= 0 {
		limit = 100
	}

	where := `WHERE ($1 = '' OR category = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR formula ILIKE '%' || $2 || '%')`

	var total int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chemicals `+where, string(category), search,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: count chemicals: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+chemicalColumns+` FROM chemicals `+where+`
		 ORDER BY name
		 LIMIT $3 OFFSET $4`,
		string(category), search, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("storage: list chemicals: %w", err)
	}
	defer rows.Close()

	var chems []model.Chemical
	for rows.Next() {
		chem, err := scanChemical(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("storage: scan chemical: %w", err)
		}
		chems = append(chems, chem)
	}
	return chems, total, rows.Err()
}

func scanChemical(row pgx.Row) (model.Chemical, error) {
	var c model.Chemical
	var state, danger, category string
	err := row.Scan(
		&c.ID, &c.Name, &c.Formula, &c.Color, &state, &danger, &c.Description, &c.MolarMass,
		&c.Density, &c.BoilingPoint, &c.MeltingPoint, &c.PH, &c.ReactsWith, &category,
		&c.Hazards, &c.Concentration, &c.CreatedAt,
	)
	if err != nil {
		return model.Chemical{}, err
	}
	c.State = model.ChemicalState(state)
	c.DangerLevel = model.DangerLevel(danger)
	c.Category = model.ChemicalCategory(category)
	return c, nil
}
