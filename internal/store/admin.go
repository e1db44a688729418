package store

import (
	"context"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
)

type adminStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Admin() dependency.Admin {
	return &adminStore{MYSQLStore: ms}
}

func (ms *adminStore) AdminExists(ctx context.Context, email string) (bool, error) {
	count, err := QueryCountNamed(ctx, ms.DB(), `
		SELECT COUNT(*) FROM admins WHERE email = :email
	`, map[string]any{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
