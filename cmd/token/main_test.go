package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/database"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/token"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const userID = "65f1c0ffee0000000000a001"

type stubStore map[string]*models.User

func (s stubStore) FindPrincipalByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := s[id]; ok {
		return user, nil
	}
	return nil, database.ErrNotFound
}

func TestIssue(t *testing.T) {
	manager := token.NewManager("secret")
	store := stubStore{userID: {ID: userID, Email: "a@example.com", Username: "a"}}

	raw, err := issue(context.Background(), store, manager, userID, time.Hour)
	require.NoError(t, err)

	claims, err := manager.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a", claims.Username)
}

func TestIssue_Errors(t *testing.T) {
	manager := token.NewManager("secret")
	store := stubStore{}

	_, err := issue(context.Background(), store, manager, "bad", time.Hour)
	assert.Error(t, err)

	_, err = issue(context.Background(), store, manager, userID, 0)
	assert.Error(t, err)

	_, err = issue(context.Background(), store, manager, userID, time.Hour)
	assert.ErrorContains(t, err, "not found")
}
