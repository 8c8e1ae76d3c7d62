// internal/workers/uptake/sweep-sensitivity/handler.go
package sweepsensitivity

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"plan-uptake-workers/internal/common/camunda"
	"plan-uptake-workers/internal/common/config"
	"plan-uptake-workers/internal/common/errors"
	"plan-uptake-workers/internal/common/logger"
	"plan-uptake-workers/internal/common/metrics"
	"plan-uptake-workers/internal/common/observability"
	"plan-uptake-workers/internal/common/validation"
	"plan-uptake-workers/internal/uptake"
	"plan-uptake-workers/internal/workers/uptake/input"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType   = "uptake.sensitivity.sweep"
	WorkerName = "sweep-sensitivity"
)

type Handler struct {
	config        *Config
	logger        logger.Logger
	engine        *uptake.Engine
	observability *observability.Observability
	errorHandler  *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Engine        *uptake.Engine
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", WorkerName, err)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("%s: engine is required", WorkerName)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured(logger.Options{Level: "info", Format: "json"})
	}

	return &Handler{
		config:        workerConfig,
		logger:        log.WithFields(map[string]interface{}{"worker": TaskType}),
		engine:        opts.Engine,
		observability: opts.Observability,
		errorHandler:  errors.NewErrorHandler(log).WithMaxRetries(workerConfig.MaxRetries),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing sensitivity sweep", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	in, err := h.parseInput(job)
	if err == nil {
		var out *Output
		if out, err = h.Execute(ctx, in); err == nil {
			h.completeJob(ctx, client, job, out)
		}
	}
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
	}

	code := errors.ExtractErrorCode(err)
	status := "completed"
	if code != "" {
		status = "failed"
	}
	metrics.ObserveJob(TaskType, code, time.Since(startTime).Seconds())
	h.observability.RecordJobDuration(ctx, TaskType, time.Since(startTime), status)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	// the swept attribute's own level is replaced by the grid, so it may be omitted
	if name, ok := variables["attribute"].(string); ok {
		if _, present := variables[name]; !present {
			if _, err := uptake.ParseAttribute(name); err == nil {
				variables[name] = variables["from"]
			}
		}
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	scenario, err := input.ParseScenario(variables)
	if err != nil {
		return nil, err
	}
	profile, err := input.ParseProfile(variables)
	if err != nil {
		return nil, err
	}
	levels, err := input.ParseAttributes(variables)
	if err != nil {
		return nil, err
	}
	attr, err := uptake.ParseAttribute(variables["attribute"].(string))
	if err != nil {
		return nil, err
	}

	r := uptake.SweepRange{
		From: variables["from"].(float64),
		To:   variables["to"].(float64),
		Step: variables["step"].(float64),
	}
	lo, hi := input.AttributeBounds(attr)
	if r.From < lo || r.To > hi {
		return nil, &uptake.ValidationError{
			Field:  "from",
			Reason: fmt.Sprintf("%s must stay within [%g, %g]", attr, lo, hi),
		}
	}

	return &Input{
		Scenario:   scenario,
		Profile:    profile,
		Attributes: levels,
		Attribute:  attr,
		Range:      r,
	}, nil
}

// Execute runs the sweep. Grids above the configured point limit are
// rejected before any evaluation.
func (h *Handler) Execute(_ context.Context, in *Input) (*Output, error) {
	if in.Range.Step > 0 && in.Range.To >= in.Range.From {
		n := math.Floor((in.Range.To-in.Range.From)/in.Range.Step+1e-9) + 1
		if n > float64(h.config.MaxPoints) {
			return nil, &uptake.ValidationError{
				Field:  "step",
				Reason: fmt.Sprintf("grid has %.0f points, limit is %d", n, h.config.MaxPoints),
			}
		}
	}

	result, err := h.engine.Sweep(in.Scenario, in.Profile, in.Attributes, in.Attribute, in.Range)
	if err != nil {
		return nil, err
	}

	return &Output{
		Attribute:    result.Attribute,
		SweepPoints:  result.Points,
		SweepSummary: result.Summary,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, out *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(out)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}
	h.logger.Info("Sensitivity sweep completed", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"attribute": string(out.Attribute),
		"points":    len(out.SweepPoints),
	})
}

func (h *Handler) WorkerOptions() camunda.WorkerOptions {
	return camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[WorkerName]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
			if workerCfg.MaxRetries != nil {
				cfg.MaxRetries = *workerCfg.MaxRetries
			}
		}
	}
	return cfg
}
