// internal/workers/uptake/compute-wtp/handler.go
package computewtp

import (
	"context"
	"fmt"
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
	TaskType   = "uptake.wtp.compute"
	WorkerName = "compute-wtp"
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

	h.logger.Info("Processing WTP request", map[string]interface{}{
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

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	scenario, err := input.ParseScenario(variables)
	if err != nil {
		return nil, err
	}

	in := &Input{Scenario: scenario, ConfidenceLevel: h.config.ConfidenceLevel}
	if level, ok := variables["confidenceLevel"].(float64); ok {
		in.ConfidenceLevel = level
	}
	if adjust, ok := variables["adjust"].(bool); ok {
		in.Adjust = adjust
	}

	if !in.Adjust {
		if input.HasAnyProfileField(variables) {
			return nil, unusedProfileError(variables)
		}
		return in, nil
	}
	if in.Profile, err = input.ParseProfile(variables); err != nil {
		return nil, err
	}
	return in, nil
}

// unusedProfileError names the first respondent field sent without adjust.
func unusedProfileError(variables map[string]interface{}) error {
	for _, f := range input.ProfileFields() {
		if _, ok := variables[f]; ok {
			return &uptake.ValidationError{Field: f, Reason: "is only used when adjust is true"}
		}
	}
	return &uptake.ValidationError{Field: "adjust", Reason: "must be true when profile fields are sent"}
}

// Execute computes WTP estimates and applies the demographic adjustment
// when requested.
func (h *Handler) Execute(_ context.Context, in *Input) (*Output, error) {
	estimates, err := h.engine.ComputeWTPWithConfidence(in.Scenario, in.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	factor := 1.0
	if in.Adjust {
		estimates, factor = uptake.AdjustWTP(estimates, in.Profile, h.config.Adjustment)
	}

	return &Output{
		WTPEstimates:     estimates,
		AdjustmentFactor: factor,
		ConfidenceLevel:  in.ConfidenceLevel,
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
	h.logger.Info("WTP estimates completed", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"estimates": len(out.WTPEstimates),
		"factor":    out.AdjustmentFactor,
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
		if appConfig.Model.ConfidenceLevel > 0 {
			cfg.ConfidenceLevel = appConfig.Model.ConfidenceLevel
		}
	}
	return cfg
}
