package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// WorkerAuthState is the server-side auth snapshot of a worker account.
// token_invalid_before is a Unix timestamp in seconds, 0 means unset.
// Kept small so the auth middleware can skip the database on hot paths.
type WorkerAuthState struct {
	WorkerID           uint   `json:"worker_id"`
	Role               string `json:"role"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	UpdatedAt          int64  `json:"updated_at"`
}

func workerAuthStateKey(workerID uint) string {
	return fmt.Sprintf("auth:worker:%d", workerID)
}

// BuildWorkerAuthState builds an auth snapshot from a worker model.
func BuildWorkerAuthState(worker *models.Worker) *WorkerAuthState {
	if worker == nil {
		return nil
	}
	state := &WorkerAuthState{
		WorkerID:     worker.ID,
		Role:         worker.Role,
		TokenVersion: worker.TokenVersion,
		UpdatedAt:    time.Now().Unix(),
	}
	if worker.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = worker.TokenInvalidBefore.Unix()
	}
	return state
}

// GetWorkerAuthState reads a worker auth snapshot.
func GetWorkerAuthState(ctx context.Context, workerID uint) (*WorkerAuthState, bool, error) {
	if workerID == 0 {
		return nil, false, nil
	}
	var state WorkerAuthState
	hit, err := GetJSON(ctx, workerAuthStateKey(workerID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetWorkerAuthState writes a worker auth snapshot.
func SetWorkerAuthState(ctx context.Context, state *WorkerAuthState) error {
	if state == nil || state.WorkerID == 0 {
		return nil
	}
	return SetJSON(ctx, workerAuthStateKey(state.WorkerID), state, authStateCacheTTL)
}

// DelWorkerAuthState removes a worker auth snapshot.
func DelWorkerAuthState(ctx context.Context, workerID uint) error {
	if workerID == 0 {
		return nil
	}
	return Del(ctx, workerAuthStateKey(workerID))
}
