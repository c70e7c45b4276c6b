package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type CreateGroupMessage struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	// Actor is the username of the authenticated caller, it is stamped into
	// the audit fields regardless of anything the request payload carried.
	Actor      string `json:"-"`
	OnResponse func(resp *CreateGroupResponse)
}

func (e CreateGroupMessage) Type() string { return "group.create" }

type CreateGroupResponse struct {
	Group   *Group
	Success bool
}

type CreateGroupHandler struct {
	repo RepositoryManager
}

func NewCreateGroupHandler(repo RepositoryManager) *CreateGroupHandler {
	return &CreateGroupHandler{repo: repo}
}

func (h *CreateGroupHandler) Execute(ctx context.Context, event CreateGroupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during group creation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateGroupHandler) execute(ctx context.Context, event CreateGroupMessage) error {
	resp := &CreateGroupResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Actor == "" {
		return ErrMissingActor
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := h.repo.Groups().NameExistsTx(ctx, tx, event.Name)
		if err != nil {
			return err
		}
		if taken {
			return ErrGroupNameTaken.WithMetadata(map[string]any{
				"name": event.Name,
			})
		}

		group := &Group{
			Name:           event.Name,
			IsActive:       event.IsActive,
			CreatedBy:      event.Actor,
			LastModifiedBy: event.Actor,
		}

		if group, err = h.repo.Groups().CreateTx(ctx, tx, group); err != nil {
			return err
		}

		resp.Group = group
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "group creation transaction failed")
	}

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
