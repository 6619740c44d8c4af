// Package http provides http transport for pipeline runs
package http

import (
	stdhttp "net/http"

	"spinlog/internal/modkit/httpkit"
	"spinlog/internal/services/pipeline/domain"
)

// RunRequest asks for one stored raw batch to be run through the pipeline
type RunRequest struct {
	BatchKey string `json:"batch_key" validate:"required,batchkey"`
}

// Register mounts the pipeline routes
func Register(r httpkit.Router, runner domain.RunnerPort, loader domain.LoaderPort) {
	h := &handlers{runner: runner, loader: loader}
	httpkit.PostJSON[RunRequest](r, "/", h.run)
}

type handlers struct {
	runner domain.RunnerPort
	loader domain.LoaderPort
}

func (h *handlers) run(r *stdhttp.Request, in RunRequest) (any, error) {
	batch, err := h.loader.Load(r.Context(), in.BatchKey)
	if err != nil {
		return nil, err
	}
	report, err := h.runner.Run(r.Context(), batch)
	if err != nil {
		return nil, err
	}
	return report, nil
}
