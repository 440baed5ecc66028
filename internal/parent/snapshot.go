// Package parent fetches the authoritative workflow snapshot from the
// embedding host over HTTP.
package parent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"order-workflow-service/internal/model"
)

type HTTPSnapshotSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSnapshotSource(baseURL string) *HTTPSnapshotSource {
	return &HTTPSnapshotSource{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// FetchWorkflowState asks the parent for its current state. 404 means the
// parent holds nothing yet and is not an error.
func (p *HTTPSnapshotSource) FetchWorkflowState(ctx context.Context) (*model.WorkflowState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/stepper/state", p.baseURL), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parent snapshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parent snapshot request: unexpected status %d", resp.StatusCode)
	}

	var state model.WorkflowState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, err
	}
	return &state, nil
}
