package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sucre-siip/sucre/pkg/pagination"
	"github.com/sucre-siip/sucre/pkg/query"
	"github.com/sucre-siip/sucre/pkg/repository"
)

// PersonSummary is the browse-endpoint projection of a registry row.
type PersonSummary struct {
	ID        uuid.UUID `json:"id"`
	Cedula    string    `json:"cedula"`
	Name      string    `json:"nombre"`
	Status    string    `json:"estatus"`
	UpdatedAt time.Time `json:"updated_at"`
}

var personProjection = query.NewProjectionMap("sucre", "registry_people", "p").
	Project("id", "id").
	Project("cedula", "cedula").
	Project("nombre", "nombre").
	Project("estatus", "estatus").
	Project("updated_at", "updated_at")

func scanPersonSummary(s repository.Scanner) (PersonSummary, error) {
	var p PersonSummary
	err := s.Scan(&p.ID, &p.Cedula, &p.Name, &p.Status, &p.UpdatedAt)
	return p, err
}

// Repository reads persisted registry rows. The refresh job upserts into
// these tables; this side only loads and browses.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over the given connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadSnapshot reads the full registry into an in-memory Snapshot:
// schema column order first, then every row's raw cells.
func (r *Repository) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	columns, err := repository.QueryMany(ctx, r.db,
		`SELECT name FROM sucre.registry_schema ORDER BY position`,
		nil,
		func(s repository.Scanner) (string, error) {
			var name string
			err := s.Scan(&name)
			return name, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("load registry schema: %w", err)
	}

	rows, err := repository.QueryMany(ctx, r.db,
		`SELECT data FROM sucre.registry_people ORDER BY id`,
		nil,
		func(s repository.Scanner) (Row, error) {
			var raw []byte
			if err := s.Scan(&raw); err != nil {
				return Row{}, err
			}
			var cells map[string]string
			if err := json.Unmarshal(raw, &cells); err != nil {
				return Row{}, fmt.Errorf("decode registry row: %w", err)
			}
			return NewRow(cells), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("load registry rows: %w", err)
	}

	return NewSnapshot(columns, rows, time.Now()), nil
}

// List returns a page of person summaries with optional search across
// name and identifier.
func (r *Repository) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[PersonSummary], error) {
	builder := query.NewBuilder(personProjection, query.SortField{Field: "nombre"}).
		WhereSearch(page.Search, "nombre", "cedula")

	if len(page.Sort) > 0 {
		builder.OrderByFields(page.Sort)
	}

	countSQL, countArgs := builder.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count registry people: %w", err)
	}

	pageSQL, pageArgs := builder.BuildPage(page.Page, page.PageSize)
	people, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPersonSummary)
	if err != nil {
		return nil, fmt.Errorf("list registry people: %w", err)
	}

	result := pagination.NewPageResult(people, total, page.Page, page.PageSize)
	return &result, nil
}

// FindSummary returns the persisted summary for a normalized identifier.
func (r *Repository) FindSummary(ctx context.Context, normalizedCedula string) (PersonSummary, error) {
	builder := query.NewBuilder(personProjection).
		WhereEquals("cedula_normalizada", normalizedCedula)

	sqlText, args := builder.BuildSingleOrNull()
	summary, err := repository.QueryOne(ctx, r.db, sqlText, args, scanPersonSummary)
	return summary, repository.MapError(err, ErrNotFound, ErrNotFound)
}
