package identity

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Groups is the persistence surface for group records.
type Groups interface {
	GetByName(ctx context.Context, name string) (*Group, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Group, error)
	NameExists(ctx context.Context, name string) (bool, error)
	NameExistsTx(ctx context.Context, tx bun.IDB, name string) (bool, error)
	Create(ctx context.Context, record *Group) (*Group, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Group) (*Group, error)
}

type groups struct {
	db *bun.DB
}

var _ Groups = (*groups)(nil)

func NewGroupsRepository(db *bun.DB) Groups {
	return &groups{db: db}
}

func (a *groups) GetByName(ctx context.Context, name string) (*Group, error) {
	return a.GetByNameTx(ctx, a.db, name)
}

func (a *groups) GetByNameTx(ctx context.Context, tx bun.IDB, name string) (*Group, error) {
	record := &Group{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("group not found", errors.CategoryNotFound).
				WithCode(errors.CodeNotFound).
				WithMetadata(map[string]any{"name": name})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to fetch group")
	}

	return record, nil
}

func (a *groups) NameExists(ctx context.Context, name string) (bool, error) {
	return a.NameExistsTx(ctx, a.db, name)
}

func (a *groups) NameExistsTx(ctx context.Context, tx bun.IDB, name string) (bool, error) {
	exists, err := tx.NewSelect().
		Model((*Group)(nil)).
		Where("?TableAlias.name = ?", name).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check group name")
	}

	return exists, nil
}

func (a *groups) Create(ctx context.Context, record *Group) (*Group, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *groups) CreateTx(ctx context.Context, tx bun.IDB, record *Group) (*Group, error) {
	if record.CreatedBy == "" {
		record.CreatedBy = SystemActor
	}
	if record.LastModifiedBy == "" {
		record.LastModifiedBy = record.CreatedBy
	}

	_, err := tx.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrGroupNameTaken.WithMetadata(map[string]any{
				"name": record.Name,
			})
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create group")
	}

	return record, nil
}
